package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

func newTestService(t *testing.T, searchURL, quoteURL string) *Service {
	t.Helper()
	cfg := common.NewDefaultConfig().Resolver
	if searchURL != "" {
		cfg.SearchURL = searchURL
	}
	if quoteURL != "" {
		cfg.QuoteSearchURL = quoteURL
	}
	return NewService(cfg, arbor.NewLogger())
}

func TestResolveTicker_StaticTable(t *testing.T) {
	// Quote endpoint that fails the test if the live fallback is invoked
	quote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("live fallback must not be invoked for static table hits")
	}))
	defer quote.Close()

	svc := newTestService(t, "", quote.URL)

	tests := []struct {
		input    string
		expected string
	}{
		{"microsoft.com", "MSFT"},
		{"Microsoft", "MSFT"},
		{"infosys", "INFY.NS"},
		{"https://www.tcs.com", "TCS.NS"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.ResolveTicker(context.Background(), tt.input))
		})
	}
}

func TestResolveTicker_LongestSubstringWins(t *testing.T) {
	quote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("live fallback must not be invoked")
	}))
	defer quote.Close()

	svc := newTestService(t, "", quote.URL)

	// "reliance industries" and "reliance" both match; the longer key wins
	// regardless of map iteration order.
	got := svc.ResolveTicker(context.Background(), "reliance industries limited annual report")
	assert.Equal(t, "RELIANCE.NS", got)
}

func TestResolveTicker_MinimumMatchLength(t *testing.T) {
	quote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes":[]}`))
	}))
	defer quote.Close()

	svc := newTestService(t, "", quote.URL)

	// "box" (3 chars) is below the minimum key length and must not match
	// inside an unrelated word.
	got := svc.ResolveTicker(context.Background(), "sandboxed analytics startup")
	assert.Equal(t, "", got)
}

func TestResolveTicker_LiveFallback(t *testing.T) {
	quote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Globex Corporation", r.URL.Query().Get("q"))
		w.Write([]byte(`{"quotes":[{"symbol":"GLBX"},{"symbol":"GLBX2"}]}`))
	}))
	defer quote.Close()

	svc := newTestService(t, "", quote.URL)
	assert.Equal(t, "GLBX", svc.ResolveTicker(context.Background(), "Globex Corporation"))
}

func TestResolveWebsite_RedirectUnwrap(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a class="result__a" href="/l/?uddg=https%3A%2F%2Fwww.example.com%2F">Example</a>
		</body></html>`))
	}))
	defer search.Close()

	svc := newTestService(t, search.URL, "")
	assert.Equal(t, "https://www.example.com/", svc.ResolveWebsite(context.Background(), "example"))
}

func TestResolveWebsite_NoResults(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no results</p></body></html>`))
	}))
	defer search.Close()

	svc := newTestService(t, search.URL, "")
	assert.Equal(t, "", svc.ResolveWebsite(context.Background(), "nonexistent"))
}

func TestResolve_URLInput(t *testing.T) {
	quote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes":[]}`))
	}))
	defer quote.Close()

	svc := newTestService(t, "", quote.URL)

	identity, err := svc.Resolve(context.Background(), "https://www.microsoft.com")
	require.NoError(t, err)
	assert.Equal(t, "https://www.microsoft.com", identity.URL)
	assert.Equal(t, "Microsoft", identity.Name)
	assert.Equal(t, "MSFT", identity.Ticker)
	assert.Equal(t, models.MarketUS, identity.Market)
}

func TestResolve_NothingFound(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			w.Write([]byte(`<html></html>`))
			return
		}
		w.Write([]byte(`{"quotes":[]}`))
	}))
	defer empty.Close()

	svc := newTestService(t, empty.URL+"/search", empty.URL+"/quote")
	_, err := svc.Resolve(context.Background(), "zzzz unresolvable zzzz")
	require.Error(t, err)
}

func TestClassifyMarket(t *testing.T) {
	assert.Equal(t, models.MarketIndia, models.ClassifyMarket("INFY.NS"))
	assert.Equal(t, models.MarketIndia, models.ClassifyMarket("RELIANCE.BO"))
	assert.Equal(t, models.MarketUS, models.ClassifyMarket("MSFT"))
	assert.Equal(t, models.MarketUnknown, models.ClassifyMarket(""))
}
