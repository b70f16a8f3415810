// Package ledger applies buy and sell transactions to weighted-average-cost
// positions and rebuilds positions from their transaction history.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrUnknownKind        = errors.New("unknown transaction kind")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// AverageCostPlaces is the scale the average cost is rounded to after every
// transition, matching the storage column so stored and replayed values agree.
const AverageCostPlaces = 8

// ClosePolicy decides what happens to the average cost when a sell brings the
// quantity to zero.
type ClosePolicy int

const (
	// ResetOnClose zeroes the average cost of a closed position.
	ResetOnClose ClosePolicy = iota
	// RetainOnClose keeps the last average cost on the closed position.
	RetainOnClose
)

func (p ClosePolicy) String() string {
	switch p {
	case ResetOnClose:
		return "reset"
	case RetainOnClose:
		return "retain"
	default:
		return fmt.Sprintf("ClosePolicy(%d)", int(p))
	}
}

// ParseClosePolicy accepts "reset" or "retain".
func ParseClosePolicy(s string) (ClosePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reset":
		return ResetOnClose, nil
	case "retain":
		return RetainOnClose, nil
	default:
		return ResetOnClose, fmt.Errorf("unknown close policy %q (want reset or retain)", s)
	}
}

// Processor holds the accounting rules for one ClosePolicy.
type Processor struct {
	Policy ClosePolicy
}

// IsBusinessRule reports whether err is an accounting rule violation rather
// than an infrastructure failure.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrInsufficientShares) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrInvalidTransaction)
}

// Apply returns the position that results from applying t to current. A nil
// current means no position exists yet and is treated as closed with zero
// cost. current is never modified. Fees are recorded on the transaction but do
// not enter the cost basis.
func (p Processor) Apply(current *models.Position, t models.Transaction) (models.Position, error) {
	next := models.Position{Ticker: t.Ticker, AverageCost: decimal.Zero}
	if current != nil {
		next = *current
	}

	if t.Quantity <= 0 {
		return next, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidTransaction, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return next, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidTransaction, t.Price)
	}

	switch t.Kind {
	case models.OperationBuy:
		wasClosed := next.Quantity == 0
		oldQty := decimal.NewFromInt(next.Quantity)
		newQty := next.Quantity + t.Quantity
		cost := next.AverageCost.Mul(oldQty).Add(t.TotalValue())
		next.AverageCost = cost.Div(decimal.NewFromInt(newQty)).Round(AverageCostPlaces)
		next.Quantity = newQty
		if wasClosed {
			d := t.Date
			next.FirstBuyDate = &d
		}

	case models.OperationSell:
		if t.Quantity > next.Quantity {
			return next, fmt.Errorf("%w: selling %d of %s but only %d held",
				ErrInsufficientShares, t.Quantity, t.Ticker, next.Quantity)
		}
		next.Quantity -= t.Quantity
		if next.Quantity == 0 && p.Policy == ResetOnClose {
			next.AverageCost = decimal.Zero
		}

	default:
		return next, fmt.Errorf("%w: %q", ErrUnknownKind, t.Kind)
	}

	return next, nil
}
