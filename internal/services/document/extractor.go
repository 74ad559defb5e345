package document

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
)

// Extractor pulls plain text from PDF byte streams with page and character
// caps so a single large filing cannot swamp the research context.
type Extractor struct {
	pageLimit int
	charLimit int
	logger    arbor.ILogger
}

func NewExtractor(config common.CrawlerConfig, logger arbor.ILogger) *Extractor {
	return &Extractor{
		pageLimit: config.PDFPageLimit,
		charLimit: config.PDFCharLimit,
		logger:    logger.WithPrefix("document"),
	}
}

// Extract returns the text of the first pages of a PDF, capped to the
// configured character limit. Unparseable documents yield an empty string.
func (e *Extractor) Extract(data []byte) (text string) {
	// The parser panics on some malformed files in the wild.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug().Str("panic", toString(r)).Msg("PDF parse panicked")
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Debug().Err(err).Msg("PDF open failed")
		return ""
	}

	var sb strings.Builder
	pages := reader.NumPage()
	if pages > e.pageLimit {
		pages = e.pageLimit
	}

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
		if sb.Len() > e.charLimit {
			break
		}
	}

	return common.Truncate(strings.TrimSpace(sb.String()), e.charLimit)
}

func toString(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown"
}
