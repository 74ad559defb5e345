package financial

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/models"
)

// maxDailyCloses caps how much of the daily series feeds the price chart,
// roughly three trading years.
const maxDailyCloses = 750

// timeseriesProvider serves Indian tickers from a daily time series API that
// addresses NSE and BSE listings with exchange-prefixed symbols.
type timeseriesProvider struct {
	baseURL string
	apiKey  string
	years   int
	client  *http.Client
	logger  arbor.ILogger
}

func newTimeseriesProvider(config common.FinancialConfig, logger arbor.ILogger) *timeseriesProvider {
	return &timeseriesProvider{
		baseURL: config.TimeseriesURL,
		apiKey:  config.TimeseriesAPIKey,
		years:   config.FundamentalYears,
		client:  httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger:  logger,
	}
}

type dailySeriesResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
}

// exchangeSymbol maps a suffixed ticker to the provider's prefixed form,
// RELIANCE.NS becomes NSE:RELIANCE.
func exchangeSymbol(ticker string) string {
	switch {
	case strings.HasSuffix(ticker, ".NS"):
		return "NSE:" + strings.TrimSuffix(ticker, ".NS")
	case strings.HasSuffix(ticker, ".BO"):
		return "BSE:" + strings.TrimSuffix(ticker, ".BO")
	default:
		return ticker
	}
}

func (p *timeseriesProvider) fetch(ctx context.Context, identity models.CompanyIdentity) (models.TrendSet, error) {
	var set models.TrendSet

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", exchangeSymbol(identity.Ticker))
	params.Set("outputsize", "full")
	params.Set("apikey", p.apiKey)

	body, err := httpclient.Get(ctx, p.client, p.baseURL+"?"+params.Encode(), "")
	if err != nil {
		return set, err
	}

	var resp dailySeriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return set, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Series) == 0 {
		return set, fmt.Errorf("no daily series for %s", identity.Ticker)
	}

	points := sortedCloses(resp)
	if len(points) > maxDailyCloses {
		points = points[len(points)-maxDailyCloses:]
	}

	years := p.years
	if years <= 0 {
		years = 3
	}
	for _, yv := range yearEndCloses(points, years) {
		set.Statements = append(set.Statements, fmt.Sprintf("Year-end close (%s): ₹%.2f", yv.Year, yv.Value))
	}

	if c := lineChartPNG("Share Price (Daily Close)", points); c != nil {
		set.Charts = append(set.Charts, *c)
	}
	return set, nil
}

func sortedCloses(resp dailySeriesResponse) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(resp.Series))
	for date, entry := range resp.Series {
		value, err := strconv.ParseFloat(entry.Close, 64)
		if err != nil || value <= 0 {
			continue
		}
		points = append(points, models.PricePoint{Date: date, Close: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// yearEndCloses picks the last close of each calendar year present in the
// series, newest capped years in ascending order.
func yearEndCloses(points []models.PricePoint, years int) []models.YearValue {
	lastOfYear := map[string]float64{}
	for _, p := range points {
		if len(p.Date) < 4 {
			continue
		}
		lastOfYear[p.Date[:4]] = p.Close
	}

	sorted := make([]string, 0, len(lastOfYear))
	for year := range lastOfYear {
		sorted = append(sorted, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	if len(sorted) > years {
		sorted = sorted[:years]
	}
	sort.Strings(sorted)

	out := make([]models.YearValue, 0, len(sorted))
	for _, year := range sorted {
		out = append(out, models.YearValue{Year: year, Value: lastOfYear[year]})
	}
	return out
}
