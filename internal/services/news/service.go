package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/models"
)

// Service gathers recent company coverage. The simple path backs a single
// research run; the bulk path feeds the scheduled digest.
type Service struct {
	config      common.NewsConfig
	client      *http.Client
	digestFeeds []regionalFeed
	logger      arbor.ILogger
}

func NewService(config common.NewsConfig, logger arbor.ILogger) *Service {
	return &Service{
		config:      config,
		client:      httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		digestFeeds: regionalFeeds,
		logger:      logger.WithPrefix("news"),
	}
}

type searchAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// GetNews returns up to MaxItems deduplicated items, preferring the search
// API and falling back to the RSS query endpoint when it yields nothing.
func (s *Service) GetNews(ctx context.Context, name string) []models.NewsItem {
	maxItems := s.config.MaxItems
	if maxItems <= 0 {
		maxItems = 5
	}

	items := s.fromSearchAPI(ctx, name, maxItems)
	if len(items) == 0 {
		items = s.fromRSSSearch(ctx, name, maxItems)
	}

	items = models.DedupeNews(items)
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	s.logger.Info().Str("company", name).Int("items", len(items)).Msg("News collected")
	return items
}

func (s *Service) fromSearchAPI(ctx context.Context, name string, maxItems int) []models.NewsItem {
	if s.config.APIURL == "" || s.config.APIKey == "" {
		return nil
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(maxItems))
	params.Set("token", s.config.APIKey)

	body, err := httpclient.Get(ctx, s.client, s.config.APIURL+"?"+params.Encode(), "")
	if err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("News API failed, falling back to RSS")
		return nil
	}

	var resp searchAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("News API response unreadable")
		return nil
	}

	var items []models.NewsItem
	for _, article := range resp.Articles {
		if article.Title == "" {
			continue
		}
		source := article.Source.Name
		if source == "" {
			source = "News API"
		}
		items = append(items, models.NewsItem{
			Title:   article.Title,
			Summary: article.Description,
			URL:     article.URL,
			Source:  source,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items
}

func (s *Service) fromRSSSearch(ctx context.Context, name string, maxItems int) []models.NewsItem {
	if s.config.RSSSearchURL == "" {
		return nil
	}

	feedURL := fmt.Sprintf("%s?q=%s", s.config.RSSSearchURL, url.QueryEscape(name))
	feed, err := fetchFeed(ctx, s.client, feedURL)
	if err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("RSS search failed")
		return nil
	}

	var items []models.NewsItem
	for _, item := range feed.Channel.Items {
		if item.Title == "" {
			continue
		}
		source := item.Source
		if source == "" {
			source = "Google News"
		}
		items = append(items, models.NewsItem{
			Title:   item.Title,
			Summary: stripTags(item.Description),
			URL:     item.Link,
			Source:  source,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items
}

type bulkAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// CollectDigestNews gathers digest coverage from the bulk API plus every
// regional feed, keeping only items that actually name the company.
func (s *Service) CollectDigestNews(ctx context.Context, name string) []models.NewsItem {
	perSource := s.config.BulkMaxItems
	if perSource <= 0 {
		perSource = 20
	}

	var items []models.NewsItem
	items = append(items, s.fromBulkAPI(ctx, name, perSource)...)

	needle := strings.ToLower(name)
	for _, feed := range s.digestFeeds {
		parsed, err := fetchFeed(ctx, s.client, feed.URL)
		if err != nil {
			s.logger.Debug().Str("feed", feed.Name).Err(err).Msg("Feed unavailable")
			continue
		}

		count := 0
		for _, entry := range parsed.Channel.Items {
			if count >= perSource {
				break
			}
			count++

			summary := stripTags(entry.Description)
			if !strings.Contains(strings.ToLower(entry.Title), needle) &&
				!strings.Contains(strings.ToLower(summary), needle) {
				continue
			}
			items = append(items, models.NewsItem{
				Title:   entry.Title,
				Summary: summary,
				URL:     entry.Link,
				Source:  feed.Name,
			})
		}
	}

	items = models.DedupeNews(items)
	if len(items) == 0 {
		s.logger.Warn().Str("company", name).Msg("No digest news after filtering")
	} else {
		s.logger.Info().Str("company", name).Int("items", len(items)).Msg("Digest news collected")
	}
	return items
}

func (s *Service) fromBulkAPI(ctx context.Context, name string, perSource int) []models.NewsItem {
	if s.config.BulkAPIURL == "" || s.config.BulkAPIKey == "" {
		return nil
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(perSource))
	params.Set("apiKey", s.config.BulkAPIKey)

	body, err := httpclient.Get(ctx, s.client, s.config.BulkAPIURL+"?"+params.Encode(), "")
	if err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("Bulk news API failed")
		return nil
	}

	var resp bulkAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("Bulk news response unreadable")
		return nil
	}

	needle := strings.ToLower(name)
	var items []models.NewsItem
	for _, article := range resp.Articles {
		if article.Title == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(article.Title), needle) &&
			!strings.Contains(strings.ToLower(article.Description), needle) &&
			!strings.Contains(strings.ToLower(article.Content), needle) {
			continue
		}
		items = append(items, models.NewsItem{
			Title:   article.Title,
			Summary: article.Description,
			URL:     article.URL,
			Source:  article.Source.Name,
		})
	}
	return items
}
