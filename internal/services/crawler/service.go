package crawler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// Service crawls a company website breadth-first, staying on the site's
// registrable domain and honoring hard page and size caps.
type Service struct {
	config    common.CrawlerConfig
	client    *http.Client
	extractor interfaces.DocumentExtractor
	logger    arbor.ILogger
}

// NewService creates a crawler bound to the given document extractor.
func NewService(config common.CrawlerConfig, extractor interfaces.DocumentExtractor, logger arbor.ILogger) *Service {
	return &Service{
		config:    config,
		client:    httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		extractor: extractor,
		logger:    logger.WithPrefix("crawler"),
	}
}

// Crawl walks the site rooted at startURL and returns extracted page text and
// PDF text. An unreachable site yields an empty result rather than an error
// so research can proceed on whatever other sources respond.
func (s *Service) Crawl(ctx context.Context, startURL string) interfaces.CrawlResult {
	result := interfaces.CrawlResult{}

	base, err := url.Parse(startURL)
	if err != nil || base.Host == "" {
		s.logger.Warn().Str("url", startURL).Msg("Invalid start URL, skipping crawl")
		return result
	}
	baseDomain := registrableDomain(base.Hostname())

	state := &crawlState{
		visited: map[string]struct{}{},
		budget:  s.config.MaxPages,
	}

	queue := []string{startURL}
	for len(queue) > 0 {
		if ctx.Err() != nil {
			break
		}

		batch := s.takeBatch(state, &queue)
		if len(batch) == 0 {
			break
		}

		var wg sync.WaitGroup
		for _, pageURL := range batch {
			wg.Add(1)
			go func(pageURL string) {
				defer wg.Done()
				s.fetchOne(ctx, pageURL, baseDomain, state, &queue)
			}(pageURL)
		}
		wg.Wait()
	}

	result.Pages = state.pages
	result.PDFTexts = state.pdfTexts

	s.logger.Info().
		Str("url", startURL).
		Int("pages", len(result.Pages)).
		Int("pdfs", len(result.PDFTexts)).
		Msg("Crawl complete")
	return result
}

// crawlState is shared across the fetch goroutines of a single crawl.
type crawlState struct {
	mu       sync.Mutex
	visited  map[string]struct{}
	budget   int
	pages    []models.PageRecord
	pdfTexts []string
}

// takeBatch reserves up to MaxConcurrency unvisited URLs from the queue,
// consuming budget slots before any fetch starts so the page cap is never
// overshot.
func (s *Service) takeBatch(state *crawlState, queue *[]string) []string {
	state.mu.Lock()
	defer state.mu.Unlock()

	var batch []string
	for len(batch) < s.config.MaxConcurrency && len(*queue) > 0 && state.budget > 0 {
		next := (*queue)[0]
		*queue = (*queue)[1:]

		if _, ok := state.visited[next]; ok {
			continue
		}
		state.visited[next] = struct{}{}
		state.budget--
		batch = append(batch, next)
	}
	return batch
}

func (s *Service) fetchOne(ctx context.Context, pageURL, baseDomain string, state *crawlState, queue *[]string) {
	body, err := httpclient.Get(ctx, s.client, pageURL, s.config.UserAgent)
	if err != nil {
		s.logger.Debug().Str("url", pageURL).Err(err).Msg("Fetch failed")
		return
	}
	if len(body) > s.config.MaxBodySize {
		body = body[:s.config.MaxBodySize]
	}

	if isPDFLink(pageURL) {
		text := s.extractor.Extract(body)
		if text == "" {
			return
		}
		state.mu.Lock()
		state.pdfTexts = append(state.pdfTexts, text)
		state.mu.Unlock()
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		s.logger.Debug().Str("url", pageURL).Err(err).Msg("Parse failed")
		return
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	links := extractLinks(doc, parsed, baseDomain)

	text := extractText(doc, s.config.PageCharLimit)

	state.mu.Lock()
	if text != "" {
		state.pages = append(state.pages, models.PageRecord{URL: pageURL, Text: text})
	}
	for _, link := range links {
		if _, ok := state.visited[link]; ok {
			continue
		}
		// PDFs and relevant subpages go first so the budget favors them.
		if isPDFLink(link) || IsRelevantSubpage(link) {
			*queue = append([]string{link}, *queue...)
		} else {
			*queue = append(*queue, link)
		}
	}
	state.mu.Unlock()
}
