package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// ResearchService orchestrates the aggregation pipeline for one request:
// resolve, crawl, gather financial/news/leadership data, build context,
// analyze, and export artifacts.
type ResearchService interface {
	// Run executes the full pipeline. Only identity resolution failure
	// (ErrNoIdentity) aborts; every other source degrades to empty.
	Run(ctx context.Context, input string) (*models.ResearchReport, error)

	// BuildContext re-aggregates sources into the bounded context blob.
	BuildContext(identity models.CompanyIdentity, wikiSummary string, trends models.TrendSet, pages []models.PageRecord, pdfTexts []string, news []models.NewsItem, leadership []models.LeadershipEntry, limit int) string

	// CachedContext returns a previously aggregated context for the
	// company, or "" when none is cached.
	CachedContext(ctx context.Context, name string) string
}

// ExportService renders briefing artifacts into the downloads directory.
type ExportService interface {
	// WritePDF renders the summary as a PDF and returns its file path.
	WritePDF(companyName, summary string) (string, error)

	// WriteDeck renders the analysis as a slide deck and returns its path.
	WriteDeck(companyName string, analysis models.AnalysisResult) (string, error)

	// WriteCharts writes chart PNGs and returns their file paths.
	WriteCharts(companyName string, charts []models.Chart) []string

	// PublicURL maps an artifact path to its served download URL.
	PublicURL(path string) string
}
