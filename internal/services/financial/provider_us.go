package financial

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/models"
)

// flexFloat tolerates numeric fields the API sometimes returns as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// premiumProvider serves US tickers from a paid fundamentals API. The
// upstream enforces a request budget, hence the limiter on every call.
type premiumProvider struct {
	baseURL string
	apiKey  string
	years   int
	months  int
	client  *http.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
}

func newPremiumProvider(config common.FinancialConfig, logger arbor.ILogger) *premiumProvider {
	perSec := config.RateLimitPerSec
	if perSec <= 0 {
		perSec = 10
	}
	return &premiumProvider{
		baseURL: config.MarketDataURL,
		apiKey:  config.MarketDataAPIKey,
		years:   config.FundamentalYears,
		months:  config.PriceHistoryMonths,
		client:  httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		limiter: rate.NewLimiter(rate.Limit(perSec), perSec),
		logger:  logger,
	}
}

type fundamentalsResponse struct {
	General struct {
		Description       string `json:"Description"`
		FullTimeEmployees int    `json:"FullTimeEmployees"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization flexFloat `json:"MarketCapitalization"`
		RevenueTTM           flexFloat `json:"RevenueTTM"`
	} `json:"Highlights"`
	Financials struct {
		IncomeStatement struct {
			Yearly map[string]struct {
				Date         string    `json:"date"`
				TotalRevenue flexFloat `json:"totalRevenue"`
				NetIncome    flexFloat `json:"netIncome"`
			} `json:"yearly"`
		} `json:"Income_Statement"`
	} `json:"Financials"`
}

type eodBar struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

func (p *premiumProvider) fetch(ctx context.Context, identity models.CompanyIdentity) (models.TrendSet, error) {
	var set models.TrendSet

	fundamentals, err := p.getFundamentals(ctx, identity.Ticker)
	if err != nil {
		return set, err
	}

	if mcap := float64(fundamentals.Highlights.MarketCapitalization); mcap > 0 {
		set.Statements = append(set.Statements, fmt.Sprintf("Market cap: %s", common.FormatMoney(common.Float64Ptr(mcap))))
	}
	if fundamentals.General.FullTimeEmployees > 0 {
		set.Statements = append(set.Statements, fmt.Sprintf("Employees: %s", common.GroupDigits(int64(fundamentals.General.FullTimeEmployees))))
	}

	revenue, income := yearlyIncomeSeries(fundamentals, p.years)
	for _, yv := range revenue {
		set.Statements = append(set.Statements, fmt.Sprintf("Revenue (%s): %s", yv.Year, common.FormatMoney(common.Float64Ptr(yv.Value))))
	}
	for _, yv := range income {
		set.Statements = append(set.Statements, fmt.Sprintf("Net income (%s): %s", yv.Year, common.FormatMoney(common.Float64Ptr(yv.Value))))
	}

	if c := barChartPNG("Annual Revenue", revenue); c != nil {
		set.Charts = append(set.Charts, *c)
	}
	if c := barChartPNG("Annual Net Income", income); c != nil {
		set.Charts = append(set.Charts, *c)
	}

	// Price history failures are tolerable, statements already carry value.
	if points, err := p.getMonthlyCloses(ctx, identity.Ticker); err == nil {
		if c := lineChartPNG("Share Price (Monthly Close)", points); c != nil {
			set.Charts = append(set.Charts, *c)
		}
	} else {
		p.logger.Debug().Str("ticker", identity.Ticker).Err(err).Msg("Price history unavailable")
	}

	return set, nil
}

func (p *premiumProvider) getFundamentals(ctx context.Context, ticker string) (*fundamentalsResponse, error) {
	var resp fundamentalsResponse
	if err := p.get(ctx, "/fundamentals/"+ticker, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *premiumProvider) getMonthlyCloses(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	months := p.months
	if months <= 0 {
		months = 36
	}
	from := time.Now().AddDate(0, -months, 0)

	params := url.Values{}
	params.Set("period", "m")
	params.Set("order", "a")
	params.Set("from", from.Format("2006-01-02"))

	var bars []eodBar
	if err := p.get(ctx, "/eod/"+ticker, params, &bars); err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0, len(bars))
	for _, bar := range bars {
		if bar.Close <= 0 {
			continue
		}
		points = append(points, models.PricePoint{Date: bar.Date, Close: bar.Close})
	}
	return points, nil
}

func (p *premiumProvider) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", p.apiKey)
	params.Set("fmt", "json")

	body, err := httpclient.Get(ctx, p.client, p.baseURL+path+"?"+params.Encode(), "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// yearlyIncomeSeries flattens the yearly income statement map into revenue
// and net income series, newest capped years in ascending order.
func yearlyIncomeSeries(f *fundamentalsResponse, years int) (revenue, income []models.YearValue) {
	if years <= 0 {
		years = 3
	}

	dates := make([]string, 0, len(f.Financials.IncomeStatement.Yearly))
	for date := range f.Financials.IncomeStatement.Yearly {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > years {
		dates = dates[:years]
	}
	sort.Strings(dates)

	for _, date := range dates {
		entry := f.Financials.IncomeStatement.Yearly[date]
		year := date
		if len(year) >= 4 {
			year = year[:4]
		}
		if v := float64(entry.TotalRevenue); v > 0 {
			revenue = append(revenue, models.YearValue{Year: year, Value: v})
		}
		if v := float64(entry.NetIncome); v != 0 {
			income = append(income, models.YearValue{Year: year, Value: v})
		}
	}
	return revenue, income
}
