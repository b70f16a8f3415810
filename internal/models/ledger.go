package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind is the side of a ledger entry
type OperationKind string

const (
	OperationBuy  OperationKind = "buy"
	OperationSell OperationKind = "sell"
)

// Valid reports whether k is buy or sell.
func (k OperationKind) Valid() bool {
	return k == OperationBuy || k == OperationSell
}

// Transaction is an immutable ledger entry. Once inserted it is never updated,
// only deleted by explicit user action (which triggers a replay of its ticker).
type Transaction struct {
	ID        int64           `json:"id"`
	Ticker    string          `json:"ticker"`
	Kind      OperationKind   `json:"type"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Date      time.Time       `json:"date"`
	Fees      decimal.Decimal `json:"fees"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// TotalValue is price times quantity, fees excluded.
func (t Transaction) TotalValue() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// Position is the cached aggregate of all transactions for one ticker.
// Quantity 0 means the position is closed.
type Position struct {
	Ticker       string          `json:"ticker"`
	Quantity     int64           `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_price"`
	FirstBuyDate *time.Time      `json:"first_buy_date,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsOpen reports whether any shares are held.
func (p *Position) IsOpen() bool {
	return p != nil && p.Quantity > 0
}

// TotalInvested is average cost times quantity held.
func (p *Position) TotalInvested() decimal.Decimal {
	return p.AverageCost.Mul(decimal.NewFromInt(p.Quantity))
}
