package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/parsers"
	"github.com/epeers/stocktracker/internal/repository"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidStock = errors.New("invalid stock")
	ErrStockExists  = errors.New("stock already exists")
	ErrStockInUse   = errors.New("stock is referenced by transactions or a position")
)

const maxStockNameLen = 200

// StockStore is the stock registry part of the ledger storage
type StockStore interface {
	ListStocks(ctx context.Context, activeOnly bool) ([]models.Stock, error)
	CreateStock(ctx context.Context, s *models.Stock) error
	UpdateStock(ctx context.Context, s *models.Stock) error
	DeleteStock(ctx context.Context, ticker string) error
}

// ListStocks returns registered stocks by ticker, active ones only unless
// the request asks otherwise
func (s *LedgerService) ListStocks(ctx context.Context, req models.ListStocksRequest) ([]models.Stock, error) {
	activeOnly := req.ActiveOnly == nil || *req.ActiveOnly
	stocks, err := s.store.ListStocks(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}
	return stocks, nil
}

// GetStock looks up one registered stock
func (s *LedgerService) GetStock(ctx context.Context, rawTicker string) (*models.Stock, error) {
	ticker, err := parsers.ParseTicker(rawTicker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStock, err)
	}
	stock, err := s.store.GetStock(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, ticker)
	}
	return stock, nil
}

// CreateStock registers a stock so transactions can be recorded against it
func (s *LedgerService) CreateStock(ctx context.Context, req *models.StockRequest) (*models.Stock, error) {
	ticker, err := parsers.ParseTicker(req.Ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStock, err)
	}
	name, err := stockName(req.Name)
	if err != nil {
		return nil, err
	}
	stock := &models.Stock{Ticker: ticker, Name: name, Sector: sector(req.Sector), IsActive: true}

	unlock := s.locks.Lock(ticker)
	defer unlock()

	if err := s.store.CreateStock(ctx, stock); err != nil {
		if errors.Is(err, repository.ErrStockExists) {
			return nil, fmt.Errorf("%w: %s", ErrStockExists, ticker)
		}
		return nil, err
	}
	log.Infof("registered stock %s (%s)", ticker, name)
	return stock, nil
}

// UpdateStock applies a partial update to a registered stock
func (s *LedgerService) UpdateStock(ctx context.Context, rawTicker string, req *models.StockUpdateRequest) (*models.Stock, error) {
	ticker, err := parsers.ParseTicker(rawTicker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStock, err)
	}

	unlock := s.locks.Lock(ticker)
	defer unlock()

	stock, err := s.store.GetStock(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, ticker)
	}

	if req.Name != nil {
		if stock.Name, err = stockName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Sector != nil {
		stock.Sector = sector(req.Sector)
	}
	if req.IsActive != nil {
		stock.IsActive = *req.IsActive
	}

	if err := s.store.UpdateStock(ctx, stock); err != nil {
		if errors.Is(err, repository.ErrStockNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStockNotFound, ticker)
		}
		return nil, err
	}
	return stock, nil
}

// DeleteStock removes a stock that has no transactions and no position
func (s *LedgerService) DeleteStock(ctx context.Context, rawTicker string) error {
	ticker, err := parsers.ParseTicker(rawTicker)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStock, err)
	}

	unlock := s.locks.Lock(ticker)
	defer unlock()

	switch err := s.store.DeleteStock(ctx, ticker); {
	case errors.Is(err, repository.ErrStockNotFound):
		return fmt.Errorf("%w: %s", ErrStockNotFound, ticker)
	case errors.Is(err, repository.ErrStockInUse):
		return fmt.Errorf("%w: %s", ErrStockInUse, ticker)
	case err != nil:
		return err
	}
	log.Infof("deleted stock %s", ticker)
	return nil
}

// UpdatePositionNotes sets the free-text notes of a stored position, open or
// closed. Nil or blank notes clear them. Replays keep whatever is set here.
func (s *LedgerService) UpdatePositionNotes(ctx context.Context, rawTicker string, notes *string) (*models.Position, error) {
	ticker, err := parsers.ParseTicker(rawTicker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	unlock := s.locks.Lock(ticker)
	defer unlock()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.LockTicker(ctx, ticker); err != nil {
		return nil, err
	}
	pos, err := tx.GetPosition(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if pos == nil {
		return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, ticker)
	}

	pos.Notes = nil
	if notes != nil {
		if trimmed := strings.TrimSpace(*notes); trimmed != "" {
			pos.Notes = &trimmed
		}
	}
	if err := tx.UpsertPosition(ctx, pos); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return pos, nil
}

func stockName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidStock)
	}
	if utf8.RuneCountInString(name) > maxStockNameLen {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrInvalidStock, maxStockNameLen)
	}
	return name, nil
}

// sector trims raw; blank means no sector
func sector(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil
	}
	return &v
}
