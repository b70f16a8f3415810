package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/jackc/pgx/v5"
)

var (
	ErrStockNotFound = errors.New("stock not found")
	ErrStockExists   = errors.New("stock already exists")
	// ErrStockInUse means transactions or a position still reference the stock.
	ErrStockInUse = errors.New("stock has transactions or a position")
)

// ListStocks returns registered stocks ordered by ticker
func (r *LedgerRepository) ListStocks(ctx context.Context, activeOnly bool) ([]models.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE is_active OR NOT $1
		ORDER BY ticker
	`
	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var result []models.Stock
	for rows.Next() {
		var s models.Stock
		if err := rows.Scan(&s.ID, &s.Ticker, &s.Name, &s.Sector, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// CreateStock registers a stock, filling ID and CreatedAt. A taken ticker
// returns ErrStockExists.
func (r *LedgerRepository) CreateStock(ctx context.Context, s *models.Stock) error {
	query := `
		INSERT INTO stocks (ticker, name, sector, is_active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ticker) DO NOTHING
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, s.Ticker, s.Name, s.Sector, s.IsActive).Scan(&s.ID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStockExists
	}
	if err != nil {
		return fmt.Errorf("failed to create stock %s: %w", s.Ticker, err)
	}
	return nil
}

// UpdateStock overwrites the mutable fields of the stock with s.Ticker
func (r *LedgerRepository) UpdateStock(ctx context.Context, s *models.Stock) error {
	query := `
		UPDATE stocks SET name = $2, sector = $3, is_active = $4
		WHERE ticker = $1
	`
	result, err := r.pool.Exec(ctx, query, s.Ticker, s.Name, s.Sector, s.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update stock %s: %w", s.Ticker, err)
	}
	if result.RowsAffected() == 0 {
		return ErrStockNotFound
	}
	return nil
}

// DeleteStock removes a stock nothing references
func (r *LedgerRepository) DeleteStock(ctx context.Context, ticker string) error {
	query := `
		DELETE FROM stocks
		WHERE ticker = $1
		  AND NOT EXISTS (SELECT 1 FROM transactions WHERE ticker = $1)
		  AND NOT EXISTS (SELECT 1 FROM positions WHERE ticker = $1)
	`
	result, err := r.pool.Exec(ctx, query, ticker)
	if err != nil {
		return fmt.Errorf("failed to delete stock %s: %w", ticker, err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	existing, err := r.GetStock(ctx, ticker)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrStockNotFound
	}
	return ErrStockInUse
}
