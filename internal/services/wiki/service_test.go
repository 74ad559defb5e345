package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
)

func newTestService(apiURL, summaryURL, pageURL string) *Service {
	return NewService(common.WikiConfig{
		APIURL:         apiURL,
		SummaryURL:     summaryURL,
		PageURL:        pageURL,
		RequestTimeout: 5 * time.Second,
	}, common.GetLogger())
}

func searchHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"query": {"search": [{"title": %q}]}}`, title)
	}
}

func TestSummary_ReturnsLeadExtract(t *testing.T) {
	api := httptest.NewServer(searchHandler("Acme Corporation"))
	defer api.Close()

	summary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Acme_Corporation")
		fmt.Fprint(w, `{"extract": "Acme Corporation is a fictional conglomerate."}`)
	}))
	defer summary.Close()

	svc := newTestService(api.URL, summary.URL, "")
	got := svc.Summary(context.Background(), "Acme")
	assert.Equal(t, "Acme Corporation is a fictional conglomerate.", got)
}

func TestSummary_NoSearchHitIsEmpty(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query": {"search": []}}`)
	}))
	defer api.Close()

	svc := newTestService(api.URL, "http://unused.invalid", "")
	assert.Equal(t, "", svc.Summary(context.Background(), "Nonexistent Co"))
}

func TestInfoboxRows_ParsesHeadersAndBreakSeparatedCells(t *testing.T) {
	api := httptest.NewServer(searchHandler("Acme Corporation"))
	defer api.Close()

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table class="infobox">
			<tr><th>Industry</th><td>Manufacturing</td></tr>
			<tr><th>Key people</th><td><a href="#">Jane Doe</a> (CEO)<br/>John Roe (Chairman)</td></tr>
			<tr><th>Founded</th></tr>
		</table></body></html>`)
	}))
	defer page.Close()

	svc := newTestService(api.URL, "", page.URL)
	rows := svc.InfoboxRows(context.Background(), "Acme")

	require.Len(t, rows, 2)
	assert.Equal(t, "Industry", rows[0].Header)
	assert.Equal(t, []string{"Manufacturing"}, rows[0].Values)
	assert.Equal(t, "Key people", rows[1].Header)
	assert.Equal(t, []string{"Jane Doe (CEO)", "John Roe (Chairman)"}, rows[1].Values)
}

func TestInfoboxRows_UnreachableSiteIsNil(t *testing.T) {
	api := httptest.NewServer(searchHandler("Acme Corporation"))
	defer api.Close()

	svc := newTestService(api.URL, "", "http://dead-host.invalid")
	assert.Nil(t, svc.InfoboxRows(context.Background(), "Acme"))
}
