package models

import "strings"

// Market classifies the exchange region a ticker trades in.
type Market string

const (
	MarketUS      Market = "US"
	MarketIndia   Market = "India"
	MarketUnknown Market = "Unknown"
)

// CompanyIdentity is the resolved identity for one research request.
// It is created once by the resolver and immutable afterwards.
type CompanyIdentity struct {
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Ticker string `json:"ticker,omitempty"`
	Market Market `json:"market"`
}

// ClassifyMarket determines the market for a ticker symbol.
// NSE/BSE suffixes mark Indian listings; any other non-empty ticker is
// treated as US-listed.
func ClassifyMarket(ticker string) Market {
	if ticker == "" {
		return MarketUnknown
	}
	upper := strings.ToUpper(ticker)
	if strings.HasSuffix(upper, ".NS") || strings.HasSuffix(upper, ".BO") {
		return MarketIndia
	}
	return MarketUS
}

// PageRecord holds the cleaned text of one crawled page.
type PageRecord struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}
