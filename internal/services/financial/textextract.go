package financial

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// yearWindow is how far around a figure a fiscal year is searched for.
const yearWindow = 20

// The figure regexes require a unit word after the number so a fiscal year
// sitting between the keyword and the figure is never mistaken for the value.
var (
	revenuePattern = regexp.MustCompile(`(?i)revenue[^.\n]{0,40}?[\$₹]?\s?([\d][\d,]*(?:\.\d+)?)\s*(billion|million|crore|lakh|bn|mn)\b`)
	profitPattern  = regexp.MustCompile(`(?i)net\s+(?:profit|income)[^.\n]{0,40}?[\$₹]?\s?([\d][\d,]*(?:\.\d+)?)\s*(billion|million|crore|lakh|bn|mn)\b`)
	growthPattern  = regexp.MustCompile(`(?i)growth[^\d%\n]{0,30}([\d]+(?:\.\d+)?)\s?%`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

var unitMultipliers = map[string]float64{
	"billion": 1e9,
	"bn":      1e9,
	"million": 1e6,
	"mn":      1e6,
	"crore":   1e7,
	"lakh":    1e5,
}

// extractFromText recovers financial statements from free-form page and PDF
// text when every API provider has failed. Figures are attributed to the
// nearest 4-digit year within the window, newest capped years kept.
func extractFromText(texts []string, years int) models.TrendSet {
	if years <= 0 {
		years = 3
	}

	revenue := map[string]float64{}
	profit := map[string]float64{}
	growth := map[string]float64{}

	for _, text := range texts {
		collectMetric(text, revenuePattern, true, revenue)
		collectMetric(text, profitPattern, true, profit)
		collectMetric(text, growthPattern, false, growth)
	}

	var set models.TrendSet

	revenueSeries := newestYears(revenue, years)
	for _, yv := range revenueSeries {
		set.Statements = append(set.Statements, fmt.Sprintf("Revenue (%s): %s", yv.Year, common.FormatMoney(common.Float64Ptr(yv.Value))))
	}
	profitSeries := newestYears(profit, years)
	for _, yv := range profitSeries {
		set.Statements = append(set.Statements, fmt.Sprintf("Net profit (%s): %s", yv.Year, common.FormatMoney(common.Float64Ptr(yv.Value))))
	}
	for _, yv := range newestYears(growth, years) {
		set.Statements = append(set.Statements, fmt.Sprintf("Growth (%s): %.1f%%", yv.Year, yv.Value))
	}

	if c := barChartPNG("Revenue (Reported)", revenueSeries); c != nil {
		set.Charts = append(set.Charts, *c)
	}
	if c := barChartPNG("Net Profit (Reported)", profitSeries); c != nil {
		set.Charts = append(set.Charts, *c)
	}
	return set
}

// collectMetric scans text with one metric pattern, attributing each match to
// a year found near it. Matches without a nearby year are dropped.
func collectMetric(text string, pattern *regexp.Regexp, hasUnit bool, out map[string]float64) {
	for _, idx := range pattern.FindAllStringSubmatchIndex(text, -1) {
		match := text[idx[0]:idx[1]]
		groups := pattern.FindStringSubmatch(match)
		if groups == nil {
			continue
		}

		raw := strings.ReplaceAll(groups[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			continue
		}
		if hasUnit && len(groups) > 2 {
			if mult, ok := unitMultipliers[strings.ToLower(groups[2])]; ok {
				value *= mult
			}
		}

		year := nearestYear(text, idx[0], idx[1])
		if year == "" {
			continue
		}
		if _, exists := out[year]; !exists {
			out[year] = value
		}
	}
}

// nearestYear finds a 4-digit year within the window around a match span.
func nearestYear(text string, start, end int) string {
	lo := start - yearWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + yearWindow
	if hi > len(text) {
		hi = len(text)
	}
	return yearPattern.FindString(text[lo:hi])
}

// newestYears returns the newest capped years in ascending order.
func newestYears(byYear map[string]float64, years int) []models.YearValue {
	sorted := make([]string, 0, len(byYear))
	for year := range byYear {
		sorted = append(sorted, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	if len(sorted) > years {
		sorted = sorted[:years]
	}
	sort.Strings(sorted)

	out := make([]models.YearValue, 0, len(sorted))
	for _, year := range sorted {
		out = append(out, models.YearValue{Year: year, Value: byYear[year]})
	}
	return out
}
