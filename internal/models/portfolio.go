package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a best-effort current market price for a ticker
type Quote struct {
	Ticker        string          `json:"ticker"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent *float64        `json:"change_percent,omitempty"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// Holding is an open position enriched with stock metadata and, when a quote
// is available, current market data.
type Holding struct {
	Ticker          string           `json:"ticker"`
	StockName       string           `json:"stock_name"`
	Sector          *string          `json:"sector,omitempty"`
	Quantity        int64            `json:"quantity"`
	AveragePrice    decimal.Decimal  `json:"average_price"`
	FirstBuyDate    *time.Time       `json:"first_buy_date,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	TotalInvested   decimal.Decimal  `json:"total_invested"`
	CurrentPrice    *decimal.Decimal `json:"current_price,omitempty"`
	CurrentValue    *decimal.Decimal `json:"current_value,omitempty"`
	GainLoss        *decimal.Decimal `json:"gain_loss,omitempty"`
	GainLossPercent *float64         `json:"gain_loss_percent,omitempty"`
	ChangeToday     *float64         `json:"change_today,omitempty"`
}

// PositionWithStock joins a position with the stock it belongs to.
type PositionWithStock struct {
	Position
	StockName string
	Sector    *string
}

// PortfolioSummary aggregates all holdings
type PortfolioSummary struct {
	TotalInvested        decimal.Decimal `json:"total_invested"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	TotalGainLoss        decimal.Decimal `json:"total_gain_loss"`
	TotalGainLossPercent float64         `json:"total_gain_loss_percent"`
	HoldingsCount        int             `json:"holdings_count"`
	BestPerformer        *string         `json:"best_performer,omitempty"`
	WorstPerformer       *string         `json:"worst_performer,omitempty"`
}
