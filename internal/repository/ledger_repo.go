package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// LedgerRepository handles database operations for stocks, transactions and positions
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// BeginTx starts a new ledger transaction
func (r *LedgerRepository) BeginTx(ctx context.Context) (ledger.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgLedgerTx{tx: tx}, nil
}

const stockColumns = `id, ticker, name, sector, is_active, created_at`

// GetStock retrieves a stock by ticker, or nil when unknown
func (r *LedgerRepository) GetStock(ctx context.Context, ticker string) (*models.Stock, error) {
	return getStock(ctx, r.pool, ticker)
}

// ListOpenPositions returns every position with shares held, joined with its stock
func (r *LedgerRepository) ListOpenPositions(ctx context.Context) ([]models.PositionWithStock, error) {
	query := `
		SELECT p.ticker, p.quantity, p.average_cost, p.first_buy_date, p.notes, p.updated_at,
		       COALESCE(s.name, p.ticker), s.sector
		FROM positions p
		LEFT JOIN stocks s ON s.ticker = p.ticker
		WHERE p.quantity > 0
		ORDER BY p.ticker
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var result []models.PositionWithStock
	for rows.Next() {
		var pw models.PositionWithStock
		if err := rows.Scan(&pw.Ticker, &pw.Quantity, &pw.AverageCost, &pw.FirstBuyDate, &pw.Notes,
			&pw.UpdatedAt, &pw.StockName, &pw.Sector); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		result = append(result, pw)
	}
	return result, rows.Err()
}

// GetOpenPosition returns one open position joined with its stock, or nil
func (r *LedgerRepository) GetOpenPosition(ctx context.Context, ticker string) (*models.PositionWithStock, error) {
	query := `
		SELECT p.ticker, p.quantity, p.average_cost, p.first_buy_date, p.notes, p.updated_at,
		       COALESCE(s.name, p.ticker), s.sector
		FROM positions p
		LEFT JOIN stocks s ON s.ticker = p.ticker
		WHERE p.ticker = $1 AND p.quantity > 0
	`
	pw := &models.PositionWithStock{}
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&pw.Ticker, &pw.Quantity, &pw.AverageCost,
		&pw.FirstBuyDate, &pw.Notes, &pw.UpdatedAt, &pw.StockName, &pw.Sector)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return pw, nil
}

// ListRecentTransactions returns transactions newest first, optionally for one
// ticker. A limit of 0 returns every row.
func (r *LedgerRepository) ListRecentTransactions(ctx context.Context, ticker string, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ($1 = '' OR ticker = $1)
		ORDER BY trade_date DESC, id DESC
		LIMIT NULLIF($2, 0)
	`
	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// querier is the subset of pgxpool.Pool and pgx.Tx used by shared lookups.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getStock(ctx context.Context, q querier, ticker string) (*models.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE ticker = $1`
	s := &models.Stock{}
	err := q.QueryRow(ctx, query, ticker).Scan(&s.ID, &s.Ticker, &s.Name, &s.Sector, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return s, nil
}

const transactionColumns = `id, ticker, kind, quantity, price, trade_date, fees, notes, created_at`

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	var result []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Ticker, &t.Kind, &t.Quantity, &t.Price, &t.Date,
			&t.Fees, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// pgLedgerTx implements ledger.Tx on a pgx transaction.
type pgLedgerTx struct {
	tx pgx.Tx
}

// LockTicker takes a transaction-scoped advisory lock, which also covers
// tickers that have no position row yet.
func (t *pgLedgerTx) LockTicker(ctx context.Context, ticker string) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ticker)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", ticker, err)
	}
	return nil
}

func (t *pgLedgerTx) GetStock(ctx context.Context, ticker string) (*models.Stock, error) {
	return getStock(ctx, t.tx, ticker)
}

func (t *pgLedgerTx) CreateStock(ctx context.Context, s *models.Stock) error {
	query := `
		INSERT INTO stocks (ticker, name, sector, is_active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	if err := t.tx.QueryRow(ctx, query, s.Ticker, s.Name, s.Sector, s.IsActive).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create stock %s: %w", s.Ticker, err)
	}
	return nil
}

func (t *pgLedgerTx) GetPosition(ctx context.Context, ticker string) (*models.Position, error) {
	query := `
		SELECT ticker, quantity, average_cost, first_buy_date, notes, updated_at
		FROM positions
		WHERE ticker = $1
	`
	p := &models.Position{}
	err := t.tx.QueryRow(ctx, query, ticker).Scan(&p.Ticker, &p.Quantity, &p.AverageCost,
		&p.FirstBuyDate, &p.Notes, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return p, nil
}

func (t *pgLedgerTx) UpsertPosition(ctx context.Context, p *models.Position) error {
	query := `
		INSERT INTO positions (ticker, quantity, average_cost, first_buy_date, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (ticker) DO UPDATE
		SET quantity = EXCLUDED.quantity, average_cost = EXCLUDED.average_cost,
		    first_buy_date = EXCLUDED.first_buy_date, notes = EXCLUDED.notes,
		    updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	return t.tx.QueryRow(ctx, query, p.Ticker, p.Quantity, p.AverageCost, p.FirstBuyDate, p.Notes).
		Scan(&p.UpdatedAt)
}

func (t *pgLedgerTx) DeletePosition(ctx context.Context, ticker string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM positions WHERE ticker = $1`, ticker)
	return err
}

func (t *pgLedgerTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (ticker, kind, quantity, price, trade_date, fees, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	return t.tx.QueryRow(ctx, query, txn.Ticker, txn.Kind, txn.Quantity, txn.Price, txn.Date,
		txn.Fees, txn.Notes).Scan(&txn.ID, &txn.CreatedAt)
}

// LastTradeDate is served by the (ticker, trade_date, id) index.
func (t *pgLedgerTx) LastTradeDate(ctx context.Context, ticker string) (time.Time, error) {
	var last *time.Time
	err := t.tx.QueryRow(ctx, `SELECT MAX(trade_date) FROM transactions WHERE ticker = $1`, ticker).Scan(&last)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last trade date: %w", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

func (t *pgLedgerTx) ListTransactions(ctx context.Context, ticker string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ticker = $1
		ORDER BY trade_date ASC, id ASC
	`
	rows, err := t.tx.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (t *pgLedgerTx) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	txn := &models.Transaction{}
	err := t.tx.QueryRow(ctx, query, id).Scan(&txn.ID, &txn.Ticker, &txn.Kind, &txn.Quantity,
		&txn.Price, &txn.Date, &txn.Fees, &txn.Notes, &txn.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

func (t *pgLedgerTx) DeleteTransaction(ctx context.Context, id int64) error {
	result, err := t.tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (t *pgLedgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is safe to defer; after Commit it returns pgx.ErrTxClosed, which callers ignore.
func (t *pgLedgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
