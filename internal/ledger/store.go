package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/epeers/stocktracker/internal/models"
)

// Tx is one atomic unit of work against the ledger store. Everything written
// through a Tx becomes visible to others on Commit and is discarded on
// Rollback. Lookups that find nothing return nil with a nil error.
type Tx interface {
	// LockTicker serializes writers of the same ticker until the Tx ends.
	LockTicker(ctx context.Context, ticker string) error

	GetStock(ctx context.Context, ticker string) (*models.Stock, error)
	CreateStock(ctx context.Context, s *models.Stock) error

	GetPosition(ctx context.Context, ticker string) (*models.Position, error)
	UpsertPosition(ctx context.Context, p *models.Position) error
	DeletePosition(ctx context.Context, ticker string) error

	// InsertTransaction assigns ID and CreatedAt.
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	// LastTradeDate returns the latest trade date in the ticker's history, or
	// the zero time when it has none.
	LastTradeDate(ctx context.Context, ticker string) (time.Time, error)
	// ListTransactions returns the ticker's history in replay order.
	ListTransactions(ctx context.Context, ticker string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store opens ledger transactions.
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// pendingID sorts a not-yet-inserted transaction after every stored one of
// the same date.
const pendingID = math.MaxInt64

// Record validates t against the ticker's history, then inserts it and writes
// the resulting position. A business-rule failure is returned before anything
// is written, so the Tx stays usable for further records.
//
// When t is dated on or after the last stored transaction the position is
// updated incrementally and the history is never loaded. Only a backdated t
// pays for a replay of the whole history with t merged in.
func (p Processor) Record(ctx context.Context, tx Tx, t *models.Transaction) (*models.Position, error) {
	last, err := tx.LastTradeDate(ctx, t.Ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load last trade date for %s: %w", t.Ticker, err)
	}
	current, err := tx.GetPosition(ctx, t.Ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load position for %s: %w", t.Ticker, err)
	}

	var next models.Position
	if last.IsZero() || !t.Date.Before(last) {
		if next, err = p.Apply(current, *t); err != nil {
			return nil, err
		}
	} else {
		history, err := tx.ListTransactions(ctx, t.Ticker)
		if err != nil {
			return nil, fmt.Errorf("failed to load history for %s: %w", t.Ticker, err)
		}
		candidate := *t
		candidate.ID = pendingID
		replayed, err := p.Replay(t.Ticker, append(history, candidate))
		if err != nil {
			return nil, err
		}
		next = *replayed
	}
	if current != nil {
		next.Notes = current.Notes
	}

	if err := tx.InsertTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	if err := tx.UpsertPosition(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return &next, nil
}

// Rebuild recomputes the ticker's position from its stored history and writes
// it back. An empty history deletes the position and returns nil. If the
// history no longer replays cleanly nothing is written and the replay error is
// returned.
func (p Processor) Rebuild(ctx context.Context, tx Tx, ticker string) (*models.Position, error) {
	history, err := tx.ListTransactions(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", ticker, err)
	}
	pos, err := p.Replay(ticker, history)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		if err := tx.DeletePosition(ctx, ticker); err != nil {
			return nil, fmt.Errorf("failed to delete position: %w", err)
		}
		return nil, nil
	}

	current, err := tx.GetPosition(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load position for %s: %w", ticker, err)
	}
	if current != nil {
		pos.Notes = current.Notes
	}
	if err := tx.UpsertPosition(ctx, pos); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return pos, nil
}
