package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// CrawlResult is what a bounded site crawl produces: cleaned page texts and
// the extracted text of any linked PDF documents.
type CrawlResult struct {
	Pages    []models.PageRecord
	PDFTexts []string
}

// CrawlerService performs a bounded breadth-first crawl of one site.
// Failures degrade to empty results; Crawl never returns an error for
// unreachable sites.
type CrawlerService interface {
	Crawl(ctx context.Context, baseURL string) CrawlResult
}

// DocumentExtractor extracts plain text from raw PDF bytes. Parse failures
// yield an empty string, never an error past this boundary.
type DocumentExtractor interface {
	Extract(data []byte) string
}
