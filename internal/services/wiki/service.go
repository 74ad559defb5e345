package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/interfaces"
)

// Service looks up encyclopedia data: a lead summary for the research
// context and infobox rows for the leadership resolver. All failures
// degrade to empty results.
type Service struct {
	config common.WikiConfig
	client *http.Client
	logger arbor.ILogger
}

func NewService(config common.WikiConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		client: httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger: logger.WithPrefix("wiki"),
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type summaryResponse struct {
	Extract string `json:"extract"`
}

// search returns the top hit article title for a company name, or "".
func (s *Service) search(ctx context.Context, name string) string {
	if s.config.APIURL == "" {
		return ""
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", name)
	params.Set("format", "json")

	body, err := httpclient.Get(ctx, s.client, s.config.APIURL+"?"+params.Encode(), "")
	if err != nil {
		s.logger.Debug().Str("company", name).Err(err).Msg("Article search failed")
		return ""
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Query.Search) == 0 {
		return ""
	}
	return resp.Query.Search[0].Title
}

// Summary returns the lead extract of the top search hit, or "".
func (s *Service) Summary(ctx context.Context, name string) string {
	title := s.search(ctx, name)
	if title == "" || s.config.SummaryURL == "" {
		return ""
	}

	slug := strings.ReplaceAll(title, " ", "_")
	body, err := httpclient.Get(ctx, s.client, s.config.SummaryURL+"/"+url.PathEscape(slug), "")
	if err != nil {
		s.logger.Debug().Str("title", title).Err(err).Msg("Summary fetch failed")
		return ""
	}

	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return strings.TrimSpace(resp.Extract)
}

// InfoboxRows returns the header/value rows of the top hit's infobox table,
// with cell lines split on <br> breaks.
func (s *Service) InfoboxRows(ctx context.Context, name string) []interfaces.InfoboxRow {
	title := s.search(ctx, name)
	if title == "" || s.config.PageURL == "" {
		return nil
	}

	slug := strings.ReplaceAll(title, " ", "_")
	body, err := httpclient.Get(ctx, s.client, s.config.PageURL+"/"+url.PathEscape(slug), "")
	if err != nil {
		s.logger.Debug().Str("title", title).Err(err).Msg("Article fetch failed")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var rows []interfaces.InfoboxRow
	doc.Find("table.infobox tr").Each(func(_ int, row *goquery.Selection) {
		header := strings.TrimSpace(row.Find("th").First().Text())
		if header == "" {
			return
		}

		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return
		}

		// <br> separates the individual entries inside one cell.
		html, err := cell.Html()
		if err != nil {
			return
		}
		var values []string
		for _, part := range splitOnBreaks(html) {
			if part != "" {
				values = append(values, part)
			}
		}
		if len(values) > 0 {
			rows = append(rows, interfaces.InfoboxRow{Header: header, Values: values})
		}
	})
	return rows
}

var breakTags = []string{"<br>", "<br/>", "<br />"}

func splitOnBreaks(html string) []string {
	for _, tag := range breakTags[1:] {
		html = strings.ReplaceAll(html, tag, breakTags[0])
	}

	var parts []string
	for _, chunk := range strings.Split(html, breakTags[0]) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(chunk))
		if err != nil {
			continue
		}
		parts = append(parts, strings.TrimSpace(doc.Text()))
	}
	return parts
}
