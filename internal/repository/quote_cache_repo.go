package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuoteCacheRepository is the Postgres (L2) store for recent quotes
type QuoteCacheRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteCacheRepository creates a new QuoteCacheRepository
func NewQuoteCacheRepository(pool *pgxpool.Pool) *QuoteCacheRepository {
	return &QuoteCacheRepository{pool: pool}
}

// CacheQuote stores a real-time quote
func (r *QuoteCacheRepository) CacheQuote(ctx context.Context, quote *models.Quote) error {
	query := `
		INSERT INTO quote_cache (ticker, price, change_percent, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker) DO UPDATE
		SET price = EXCLUDED.price, change_percent = EXCLUDED.change_percent,
		    fetched_at = EXCLUDED.fetched_at
	`
	_, err := r.pool.Exec(ctx, query, quote.Ticker, quote.Price, quote.ChangePercent, quote.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}
	return nil
}

// GetCachedQuote retrieves a cached quote if fresh enough
func (r *QuoteCacheRepository) GetCachedQuote(ctx context.Context, ticker string, maxAge time.Duration) (*models.Quote, error) {
	query := `
		SELECT ticker, price, change_percent, fetched_at
		FROM quote_cache
		WHERE ticker = $1 AND fetched_at > $2
	`
	q := &models.Quote{}
	minTime := time.Now().Add(-maxAge)
	err := r.pool.QueryRow(ctx, query, ticker, minTime).Scan(&q.Ticker, &q.Price, &q.ChangePercent, &q.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached quote: %w", err)
	}
	return q, nil
}
