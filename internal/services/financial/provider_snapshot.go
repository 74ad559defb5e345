package financial

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/models"
)

// snapshotProvider serves any ticker from a free quote snapshot API. It is
// the last rung of the cascade before text extraction.
type snapshotProvider struct {
	baseURL string
	years   int
	client  *http.Client
	logger  arbor.ILogger
}

func newSnapshotProvider(config common.FinancialConfig, logger arbor.ILogger) *snapshotProvider {
	return &snapshotProvider{
		baseURL: config.SnapshotURL,
		years:   config.FundamentalYears,
		client:  httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger:  logger,
	}
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			IncomeStatementHistory struct {
				Statements []struct {
					EndDate struct {
						Fmt string `json:"fmt"`
					} `json:"endDate"`
					TotalRevenue rawValue `json:"totalRevenue"`
					NetIncome    rawValue `json:"netIncome"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func (p *snapshotProvider) fetch(ctx context.Context, identity models.CompanyIdentity) (models.TrendSet, error) {
	var set models.TrendSet

	summary, err := p.getQuoteSummary(ctx, identity.Ticker)
	if err != nil {
		return set, err
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return set, fmt.Errorf("no snapshot result for %s", identity.Ticker)
	}
	result := summary.QuoteSummary.Result[0]

	// FormatMoney yields "N/A" for nil values and the aggregator filters
	// those lines, so a missing field drops its statement entirely.
	set.Statements = append(set.Statements, fmt.Sprintf("Market cap: %s", common.FormatMoney(result.Price.MarketCap.Raw)))
	if pe := result.SummaryDetail.TrailingPE.Raw; pe != nil && *pe > 0 {
		set.Statements = append(set.Statements, fmt.Sprintf("Trailing P/E: %.2f", *pe))
	}
	if dy := result.SummaryDetail.DividendYield.Raw; dy != nil && *dy > 0 {
		set.Statements = append(set.Statements, fmt.Sprintf("Dividend yield: %.2f%%", *dy*100))
	}

	var revenue, income []models.YearValue
	statements := result.IncomeStatementHistory.Statements
	years := p.years
	if years <= 0 {
		years = 3
	}
	if len(statements) > years {
		statements = statements[:years]
	}
	// History arrives newest first, series want ascending years.
	for i := len(statements) - 1; i >= 0; i-- {
		stmt := statements[i]
		year := stmt.EndDate.Fmt
		if len(year) >= 4 {
			year = year[:4]
		}
		if stmt.TotalRevenue.Raw != nil {
			revenue = append(revenue, models.YearValue{Year: year, Value: *stmt.TotalRevenue.Raw})
			set.Statements = append(set.Statements, fmt.Sprintf("Revenue (%s): %s", year, common.FormatMoney(stmt.TotalRevenue.Raw)))
		}
		if stmt.NetIncome.Raw != nil {
			income = append(income, models.YearValue{Year: year, Value: *stmt.NetIncome.Raw})
			set.Statements = append(set.Statements, fmt.Sprintf("Net income (%s): %s", year, common.FormatMoney(stmt.NetIncome.Raw)))
		}
	}

	if c := barChartPNG("Annual Revenue", revenue); c != nil {
		set.Charts = append(set.Charts, *c)
	}
	if c := barChartPNG("Annual Net Income", income); c != nil {
		set.Charts = append(set.Charts, *c)
	}

	if points, err := p.getPriceHistory(ctx, identity.Ticker); err == nil {
		if c := lineChartPNG("Share Price (3 Years)", points); c != nil {
			set.Charts = append(set.Charts, *c)
		}
	} else {
		p.logger.Debug().Str("ticker", identity.Ticker).Err(err).Msg("Price history unavailable")
	}

	return set, nil
}

func (p *snapshotProvider) getQuoteSummary(ctx context.Context, ticker string) (*quoteSummaryResponse, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,incomeStatementHistory")

	reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", p.baseURL, url.PathEscape(ticker), params.Encode())
	body, err := httpclient.Get(ctx, p.client, reqURL, "")
	if err != nil {
		return nil, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

func (p *snapshotProvider) getPriceHistory(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("range", "3y")
	params.Set("interval", "1d")

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.baseURL, url.PathEscape(ticker), params.Encode())
	body, err := httpclient.Get(ctx, p.client, reqURL, "")
	if err != nil {
		return nil, err
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no price history for %s", ticker)
	}

	result := resp.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	points := make([]models.PricePoint, 0, len(closes))
	for i, stamp := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		points = append(points, models.PricePoint{
			Date:  time.Unix(stamp, 0).UTC().Format("2006-01-02"),
			Close: *closes[i],
		})
	}
	return points, nil
}
