package models

import "time"

// Stock is a tradeable security known to the system, keyed by ticker
type Stock struct {
	ID        int64     `json:"id"`
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	Sector    *string   `json:"sector,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaceholderStockName is the display name given to stocks created during an import.
func PlaceholderStockName(ticker string) string {
	return ticker + " (imported)"
}
