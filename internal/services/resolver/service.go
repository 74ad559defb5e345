package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// Service resolves free-text company references into a canonical identity.
type Service struct {
	config     common.ResolverConfig
	httpClient *http.Client
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ResolverService = (*Service)(nil)

// NewService creates a new resolver service
func NewService(config common.ResolverConfig, logger arbor.ILogger) *Service {
	return &Service{
		config:     config,
		httpClient: httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger:     logger,
	}
}

// Resolve builds a CompanyIdentity from a name or URL. For a URL input the
// website is taken as given; for a name both website and ticker are looked
// up and ErrNoIdentity is returned when neither can be found.
func (s *Service) Resolve(ctx context.Context, input string) (models.CompanyIdentity, error) {
	input = strings.TrimSpace(input)

	identity := models.CompanyIdentity{Name: input, Market: models.MarketUnknown}

	if isURL(input) {
		identity.URL = input
		identity.Name = domainName(input)
	} else {
		identity.URL = s.ResolveWebsite(ctx, input)
	}

	identity.Ticker = s.ResolveTicker(ctx, input)
	identity.Market = models.ClassifyMarket(identity.Ticker)

	if identity.URL == "" && identity.Ticker == "" {
		return models.CompanyIdentity{}, fmt.Errorf("%w: %s", interfaces.ErrNoIdentity, input)
	}

	s.logger.Info().
		Str("name", identity.Name).
		Str("url", identity.URL).
		Str("ticker", identity.Ticker).
		Str("market", string(identity.Market)).
		Msg("Company identity resolved")

	return identity, nil
}

// ResolveWebsite queries the search engine for "<name> official site" and
// returns the first organic http(s) result, unwrapping one level of
// redirect links. Returns "" when nothing is found.
func (s *Service) ResolveWebsite(ctx context.Context, name string) string {
	query := url.Values{"q": {name + " official site"}}
	searchURL := s.config.SearchURL + "?" + query.Encode()

	body, err := httpclient.Get(ctx, s.httpClient, searchURL, "Mozilla/5.0")
	if err != nil {
		s.logger.Warn().Err(err).Str("company", name).Msg("Website search failed")
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse search results")
		return ""
	}

	var result string
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		if unwrapped := unwrapRedirect(href); unwrapped != "" {
			result = unwrapped
			return false
		}
		if strings.HasPrefix(href, "http") {
			result = href
			return false
		}
		return true
	})

	return result
}

// unwrapRedirect extracts the destination from an engine redirect link
// (the /l/?uddg=<url> form). Returns "" when href is not a redirect.
func unwrapRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	real := parsed.Query().Get("uddg")
	if strings.HasPrefix(real, "http") {
		return real
	}
	return ""
}

// ResolveTicker maps a company name or URL to a ticker symbol: exact table
// match, bare-domain match, longest-key substring match, then a live quote
// search. Returns "" when every strategy fails.
func (s *Service) ResolveTicker(ctx context.Context, nameOrURL string) string {
	key := strings.ToLower(strings.TrimSpace(nameOrURL))

	if ticker, ok := companyTickerMap[key]; ok {
		return ticker
	}

	if strings.HasPrefix(key, "http") {
		if parsed, err := url.Parse(key); err == nil {
			domain := strings.TrimPrefix(parsed.Hostname(), "www.")
			if ticker, ok := companyTickerMap[domain]; ok {
				return ticker
			}
		}
	}

	// Substring fallback. The table iteration order is random, so prefer
	// the longest matching key and require a minimum key length to avoid
	// short names matching inside unrelated input.
	var bestKey, bestTicker string
	for k, v := range companyTickerMap {
		if len(k) < s.config.MinMatchLength {
			continue
		}
		if strings.Contains(key, k) && len(k) > len(bestKey) {
			bestKey, bestTicker = k, v
		}
	}
	if bestTicker != "" {
		return bestTicker
	}

	return s.searchTicker(ctx, nameOrURL)
}

// quoteSearchResponse is the shape of the live ticker search endpoint.
type quoteSearchResponse struct {
	Quotes []struct {
		Symbol string `json:"symbol"`
	} `json:"quotes"`
}

// searchTicker queries the live financial-search API and returns the first
// quote's symbol, or "".
func (s *Service) searchTicker(ctx context.Context, name string) string {
	query := url.Values{"q": {name}}
	body, err := httpclient.Get(ctx, s.httpClient, s.config.QuoteSearchURL+"?"+query.Encode(), "Mozilla/5.0")
	if err != nil {
		s.logger.Warn().Err(err).Str("company", name).Msg("Live ticker search failed")
		return ""
	}

	var result quoteSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse ticker search response")
		return ""
	}
	if len(result.Quotes) == 0 {
		return ""
	}
	return result.Quotes[0].Symbol
}

func isURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// domainName derives a display name from a URL's registered domain label.
func domainName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if idx := strings.Index(host, "."); idx > 0 {
		host = host[:idx]
	}
	if host == "" {
		return rawURL
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
