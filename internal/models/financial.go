package models

import "strings"

// Chart is a rendered chart image ready for upload.
type Chart struct {
	Title string `json:"title"`
	PNG   []byte `json:"-"`
}

// TrendSet is the normalized output of any financial data provider:
// human-readable trend statements plus rendered charts.
type TrendSet struct {
	Statements []string `json:"statements"`
	Charts     []Chart  `json:"charts,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// Empty reports whether the set carries no usable data.
func (t TrendSet) Empty() bool {
	return len(t.Statements) == 0 && len(t.Charts) == 0
}

// FilterPlaceholders drops statements containing the "N/A" placeholder so a
// returned set is never partially numeric, partially placeholder.
func FilterPlaceholders(statements []string) []string {
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		if strings.Contains(s, "N/A") {
			continue
		}
		out = append(out, s)
	}
	return out
}

// YearValue pairs a fiscal year with a numeric value for charting.
type YearValue struct {
	Year  string
	Value float64
}

// PricePoint is one close price observation in a time series.
type PricePoint struct {
	Date  string
	Close float64
}
