package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// FinancialService aggregates financial trend data through an ordered
// provider cascade with a text-extraction fallback.
type FinancialService interface {
	// GetTrends returns trend statements and charts for the company.
	// Crawled page and PDF texts feed the regex fallback when every
	// provider fails. The result may be empty but is never an error.
	GetTrends(ctx context.Context, identity models.CompanyIdentity, pages []models.PageRecord, pdfTexts []string) models.TrendSet
}

// NewsService queries news sources for recent company coverage.
type NewsService interface {
	// GetNews returns up to the configured cap of deduplicated items,
	// falling back from the primary API to an RSS query.
	GetNews(ctx context.Context, name string) []models.NewsItem

	// CollectDigestNews gathers items from the bulk API plus regional RSS
	// feeds for the scheduled digest, filtered to items naming the company.
	CollectDigestNews(ctx context.Context, name string) []models.NewsItem
}

// WikiService looks up encyclopedia data for a company.
type WikiService interface {
	// Summary returns the lead extract of the top search hit, or "".
	Summary(ctx context.Context, name string) string

	// InfoboxRows returns (header, cell-lines) pairs from the top hit's
	// infobox table, or nil when no infobox is found.
	InfoboxRows(ctx context.Context, name string) []InfoboxRow
}

// InfoboxRow is one header/value row of an encyclopedia infobox.
type InfoboxRow struct {
	Header string
	Values []string
}

// LeadershipService resolves a company's executive team.
type LeadershipService interface {
	// GetLeadership combines the site-scrape and infobox strategies, then
	// backfills from the model when too few entries were found. The result
	// is deduplicated by lowercase (name, role).
	GetLeadership(ctx context.Context, name, website, context string) []models.LeadershipEntry
}
