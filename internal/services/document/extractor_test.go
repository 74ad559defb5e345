package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/indago/internal/common"
)

func newTestExtractor() *Extractor {
	return NewExtractor(common.CrawlerConfig{
		PDFPageLimit:   10,
		PDFCharLimit:   5000,
		RequestTimeout: 5 * time.Second,
	}, common.GetLogger())
}

func TestExtract_GarbageBytesYieldEmptyString(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "", e.Extract([]byte("this is not a pdf at all")))
}

func TestExtract_EmptyInput(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "", e.Extract(nil))
	assert.Equal(t, "", e.Extract([]byte{}))
}

func TestExtract_TruncatedHeaderDoesNotPanic(t *testing.T) {
	e := newTestExtractor()
	// A valid magic number followed by garbage exercises the recover path.
	assert.Equal(t, "", e.Extract([]byte("%PDF-1.7\n1 0 obj <<garbage")))
}
