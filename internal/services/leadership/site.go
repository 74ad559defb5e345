package leadership

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/models"
)

// Two line shapes cover most executive listings: "Jane Doe, Chief Executive
// Officer" and "Chief Executive Officer: Jane Doe". Names need at least two
// capitalized words, roles at least three characters.
var (
	nameRolePattern = regexp.MustCompile(`(?m)^\s*([A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)+)\s*,\s*([^,\n]{3,60}?)\s*$`)
	roleNamePattern = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z /&]{2,40}):\s*([A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)+)\s*$`)
)

var leadershipPathHints = []string{"leadership", "team", "management", "executive", "about"}

// leadershipLinks returns same-host links from the homepage that look like
// leadership pages, in document order.
func leadershipLinks(doc *goquery.Document, base *url.URL) []string {
	seen := map[string]struct{}{}
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		parsed, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Hostname() != base.Hostname() {
			return
		}

		lower := strings.ToLower(resolved.Path)
		relevant := false
		for _, hint := range leadershipPathHints {
			if strings.Contains(lower, hint) {
				relevant = true
				break
			}
		}
		if !relevant {
			return
		}

		resolved.Fragment = ""
		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links
}

// scrapeSite visits up to pageLimit leadership-looking subpages of the
// company website and extracts entries from their text.
func (s *Service) scrapeSite(ctx context.Context, website string) []models.LeadershipEntry {
	base, err := url.Parse(website)
	if err != nil || base.Host == "" {
		return nil
	}

	body, err := httpclient.Get(ctx, s.client, website, "")
	if err != nil {
		s.logger.Debug().Str("website", website).Err(err).Msg("Homepage fetch failed")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	links := leadershipLinks(doc, base)
	if len(links) > s.pageLimit {
		links = links[:s.pageLimit]
	}

	var entries []models.LeadershipEntry
	for _, link := range links {
		pageBody, err := httpclient.Get(ctx, s.client, link, "")
		if err != nil {
			continue
		}
		pageDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageBody))
		if err != nil {
			continue
		}
		entries = append(entries, extractFromText(lineText(pageDoc))...)
	}
	return models.DedupeLeadership(entries)
}

// lineText flattens a page to one text line per block element so the line
// anchored patterns see entry boundaries.
func lineText(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("p, li, h1, h2, h3, h4, h5, th, td, figcaption").Each(func(_ int, sel *goquery.Selection) {
		line := strings.TrimSpace(sel.Text())
		if line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	})
	return sb.String()
}

// extractFromText applies both line shapes to free-form page text.
func extractFromText(text string) []models.LeadershipEntry {
	var entries []models.LeadershipEntry

	for _, m := range nameRolePattern.FindAllStringSubmatch(text, -1) {
		entries = append(entries, models.LeadershipEntry{
			Name: strings.TrimSpace(m[1]),
			Role: strings.TrimSpace(m[2]),
		})
	}
	for _, m := range roleNamePattern.FindAllStringSubmatch(text, -1) {
		entries = append(entries, models.LeadershipEntry{
			Name: strings.TrimSpace(m[2]),
			Role: strings.TrimSpace(m[1]),
		})
	}
	return models.DedupeLeadership(entries)
}
