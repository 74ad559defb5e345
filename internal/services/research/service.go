package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// Service orchestrates one research request end to end: resolve the company,
// gather every source, build the bounded context, run the analysis, and
// render artifacts. Identity resolution is the only fatal step; every other
// source degrades to empty.
type Service struct {
	config     common.ResearchConfig
	resolver   interfaces.ResolverService
	crawler    interfaces.CrawlerService
	wiki       interfaces.WikiService
	financial  interfaces.FinancialService
	news       interfaces.NewsService
	leadership interfaces.LeadershipService
	analysis   interfaces.AnalysisService
	export     interfaces.ExportService
	cache      interfaces.KeyValueStorage
	logger     arbor.ILogger
}

func NewService(
	config common.ResearchConfig,
	resolver interfaces.ResolverService,
	crawler interfaces.CrawlerService,
	wiki interfaces.WikiService,
	financial interfaces.FinancialService,
	news interfaces.NewsService,
	leadership interfaces.LeadershipService,
	analysis interfaces.AnalysisService,
	export interfaces.ExportService,
	cache interfaces.KeyValueStorage,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:     config,
		resolver:   resolver,
		crawler:    crawler,
		wiki:       wiki,
		financial:  financial,
		news:       news,
		leadership: leadership,
		analysis:   analysis,
		export:     export,
		cache:      cache,
		logger:     logger.WithPrefix("research"),
	}
}

// Run executes the full pipeline for a company name or URL.
func (s *Service) Run(ctx context.Context, input string) (*models.ResearchReport, error) {
	runID := uuid.NewString()

	identity, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("run_id", runID).
		Str("company", identity.Name).
		Str("url", identity.URL).
		Str("ticker", identity.Ticker).
		Msg("Research started")

	var crawl interfaces.CrawlResult
	if identity.URL != "" {
		crawl = s.crawler.Crawl(ctx, identity.URL)
	}

	wikiSummary := s.wiki.Summary(ctx, identity.Name)
	trends := s.financial.GetTrends(ctx, identity, crawl.Pages, crawl.PDFTexts)
	news := s.news.GetNews(ctx, identity.Name)

	// Leadership's model backfill wants context, which in turn lists
	// leadership. Build a provisional blob first, then the final one.
	provisional := s.BuildContext(identity, wikiSummary, trends, crawl.Pages, crawl.PDFTexts, news, nil, s.config.ContextLimit)
	leadership := s.leadership.GetLeadership(ctx, identity.Name, identity.URL, provisional)

	fullContext := s.BuildContext(identity, wikiSummary, trends, crawl.Pages, crawl.PDFTexts, news, leadership, s.config.ContextLimit)
	s.storeContext(ctx, identity.Name, fullContext)

	summary, err := s.analysis.Summarize(ctx, fullContext)
	if err != nil {
		s.logger.Warn().Str("company", identity.Name).Err(err).Msg("Summary generation failed")
	}

	report := &models.ResearchReport{
		RunID:      runID,
		Identity:   identity,
		Summary:    summary,
		Context:    fullContext,
		Leadership: leadership,
		News:       news,
		Trends:     trends,
	}

	if summary != "" {
		if path, err := s.export.WritePDF(identity.Name, summary); err == nil {
			report.PDFPath = path
		} else {
			s.logger.Warn().Err(err).Msg("PDF export failed")
		}

		analysisResult := s.analysis.Analyze(ctx, fullContext)
		if analysisResult.Summary == "" {
			analysisResult.Summary = summary
		}
		if path, err := s.export.WriteDeck(identity.Name, analysisResult); err == nil {
			report.DeckPath = path
		} else {
			s.logger.Warn().Err(err).Msg("Deck export failed")
		}
	}
	report.ChartPaths = s.export.WriteCharts(identity.Name, trends.Charts)

	s.logger.Info().
		Str("run_id", runID).
		Str("company", identity.Name).
		Int("pages", len(crawl.Pages)).
		Int("news", len(news)).
		Int("leadership", len(leadership)).
		Int("context_len", len(fullContext)).
		Msg("Research complete")
	return report, nil
}

// BuildContext assembles the bounded context blob in a fixed section order.
// The cap is enforced once, after concatenation, so later sections lose out
// when earlier ones are large.
func (s *Service) BuildContext(identity models.CompanyIdentity, wikiSummary string, trends models.TrendSet, pages []models.PageRecord, pdfTexts []string, news []models.NewsItem, leadership []models.LeadershipEntry, limit int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Company: %s\n", identity.Name)
	if identity.URL != "" {
		fmt.Fprintf(&sb, "Website: %s\n", identity.URL)
	}
	if identity.Ticker != "" {
		fmt.Fprintf(&sb, "Ticker: %s\n", identity.Ticker)
	}
	sb.WriteString("\n")

	if wikiSummary != "" {
		sb.WriteString("=== Encyclopedia Overview ===\n")
		sb.WriteString(wikiSummary)
		sb.WriteString("\n\n")
	}

	if len(trends.Statements) > 0 {
		sb.WriteString("=== Financial Trends ===\n")
		for _, stmt := range trends.Statements {
			fmt.Fprintf(&sb, "- %s\n", stmt)
		}
		sb.WriteString("\n")
	}

	if len(pages) > 0 {
		sb.WriteString("=== Website Pages ===\n")
		for _, page := range pages {
			fmt.Fprintf(&sb, "\n--- %s ---\n%s\n", page.URL, page.Text)
		}
		sb.WriteString("\n")
	}

	if len(pdfTexts) > 0 {
		sb.WriteString("=== Documents ===\n")
		for _, text := range pdfTexts {
			fmt.Fprintf(&sb, "\n%s\n", text)
		}
		sb.WriteString("\n")
	}

	if len(news) > 0 {
		sb.WriteString("=== Latest News ===\n")
		for _, item := range news {
			fmt.Fprintf(&sb, "- %s (%s): %s [%s]\n", item.Title, item.Source, item.Summary, item.URL)
		}
		sb.WriteString("\n")
	}

	if len(leadership) > 0 {
		sb.WriteString("=== Leadership ===\n")
		for _, entry := range leadership {
			fmt.Fprintf(&sb, "- %s: %s\n", entry.Name, entry.Role)
		}
	}

	return common.Truncate(sb.String(), limit)
}

// CachedContext returns a previously aggregated context, or "".
func (s *Service) CachedContext(ctx context.Context, name string) string {
	value, err := s.cache.Get(ctx, contextKey(name))
	if err != nil {
		return ""
	}
	return value
}

func (s *Service) storeContext(ctx context.Context, name, fullContext string) {
	if fullContext == "" {
		return
	}
	if err := s.cache.SetWithTTL(ctx, contextKey(name), fullContext, s.config.CacheTTL); err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("Context cache write failed")
	}
}

func contextKey(name string) string {
	return "context:" + strings.ToLower(strings.TrimSpace(name))
}
