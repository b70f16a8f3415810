package alphavantage

import "github.com/shopspring/decimal"

// GlobalQuoteResponse represents the AlphaVantage GLOBAL_QUOTE response.
// Throttled or invalid requests come back with status 200 and only Note or
// Information set.
type GlobalQuoteResponse struct {
	GlobalQuote GlobalQuote `json:"Global Quote"`
	Note        string      `json:"Note"`
	Information string      `json:"Information"`
	ErrorMsg    string      `json:"Error Message"`
}

// GlobalQuote holds the quote fields, all strings on the wire
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Price            string `json:"05. price"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	ChangePercent    string `json:"10. change percent"`
}

// ParsedQuote represents a parsed quote ready for use
type ParsedQuote struct {
	Symbol        string
	Price         decimal.Decimal
	ChangePercent *float64
}
