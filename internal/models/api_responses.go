package models

import (
	"github.com/shopspring/decimal"
)

// TransactionRequest represents the request body for recording a transaction
type TransactionRequest struct {
	Ticker   string           `json:"ticker" binding:"required"`
	Kind     OperationKind    `json:"type" binding:"required"`
	Quantity int64            `json:"quantity" binding:"required"`
	Price    decimal.Decimal  `json:"price"`
	Date     FlexibleDate     `json:"date"`
	Fees     *decimal.Decimal `json:"fees"`
	Notes    *string          `json:"notes"`
}

// ListTransactionsRequest represents query parameters for the transaction history
type ListTransactionsRequest struct {
	Limit  int    `form:"limit"`
	Ticker string `form:"ticker"`
}

// StockRequest represents the request body for registering a stock
type StockRequest struct {
	Ticker string  `json:"ticker" binding:"required"`
	Name   string  `json:"name" binding:"required"`
	Sector *string `json:"sector"`
}

// StockUpdateRequest is a partial stock update. Nil fields are left
// unchanged; an empty sector clears it.
type StockUpdateRequest struct {
	Name     *string `json:"name"`
	Sector   *string `json:"sector"`
	IsActive *bool   `json:"is_active"`
}

// ListStocksRequest represents query parameters for the stock registry
type ListStocksRequest struct {
	ActiveOnly *bool `form:"active_only"`
}

// PositionNotesRequest sets or, with a null notes, clears a position's notes
type PositionNotesRequest struct {
	Notes *string `json:"notes"`
}

// ImportRequest represents the query parameters of an import upload
type ImportRequest struct {
	SkipDuplicates      *bool `form:"skip_duplicates"`
	CreateMissingStocks *bool `form:"create_missing_stocks"`
}

// ImportResponse is ImportOutcome with capped error and warning lists plus
// the uncapped totals, so clients know when messages were dropped.
type ImportResponse struct {
	ImportOutcome
	TotalErrors   int `json:"total_errors"`
	TotalWarnings int `json:"total_warnings"`
}

// PortfolioResponse represents the full portfolio view
type PortfolioResponse struct {
	Holdings []Holding        `json:"holdings"`
	Summary  PortfolioSummary `json:"summary"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
