package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/stocktracker/internal/format"
	"github.com/epeers/stocktracker/internal/importer"
	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/parsers"
	"github.com/epeers/stocktracker/internal/repository"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrStockNotFound       = errors.New("stock not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	// ErrInconsistentHistory means a change would leave a later sell without
	// enough shares when the history is replayed.
	ErrInconsistentHistory = errors.New("transaction history would become inconsistent")
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// LedgerStore is the storage the ledger service writes through
type LedgerStore interface {
	ledger.Store
	StockStore
	GetStock(ctx context.Context, ticker string) (*models.Stock, error)
	ListRecentTransactions(ctx context.Context, ticker string, limit int) ([]models.Transaction, error)
}

// LedgerService records, deletes and imports transactions. Every write holds
// the in-process lock of each ticker it touches for its whole duration.
type LedgerService struct {
	store     LedgerStore
	processor ledger.Processor
	locks     *ledger.TickerLocks
	importer  *importer.Importer
}

// NewLedgerService creates a new LedgerService. detector may be nil.
func NewLedgerService(store LedgerStore, processor ledger.Processor, detector *format.Detector) *LedgerService {
	locks := ledger.NewTickerLocks()
	return &LedgerService{
		store:     store,
		processor: processor,
		locks:     locks,
		importer:  importer.NewImporter(store, processor, locks, detector),
	}
}

// RecordTransaction validates a manual entry and applies it to its position
func (s *LedgerService) RecordTransaction(ctx context.Context, req *models.TransactionRequest) (*models.Transaction, *models.Position, error) {
	t, err := transactionFromRequest(req)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.Lock(t.Ticker)
	defer unlock()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.LockTicker(ctx, t.Ticker); err != nil {
		return nil, nil, err
	}
	stock, err := tx.GetStock(ctx, t.Ticker)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stock: %w", err)
	}
	if stock == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrStockNotFound, t.Ticker)
	}

	pos, err := s.processor.Record(ctx, tx, t)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("recorded %s %d %s @ %s", t.Kind, t.Quantity, t.Ticker, t.Price)
	return t, pos, nil
}

func transactionFromRequest(req *models.TransactionRequest) (*models.Transaction, error) {
	ticker, err := parsers.ParseTicker(req.Ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: type must be buy or sell", ErrInvalidTransaction)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidTransaction)
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidTransaction)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	fees := decimal.Zero
	if req.Fees != nil {
		if req.Fees.IsNegative() {
			return nil, fmt.Errorf("%w: fees cannot be negative", ErrInvalidTransaction)
		}
		fees = req.Fees.Round(parsers.MoneyPlaces)
	}

	return &models.Transaction{
		Ticker:   ticker,
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Price:    req.Price.Round(parsers.MoneyPlaces),
		Date:     models.TruncateToDate(req.Date.Time),
		Fees:     fees,
		Notes:    req.Notes,
	}, nil
}

// DeleteTransaction removes a transaction and replays its ticker. If the
// remaining history no longer replays, nothing is deleted and
// ErrInconsistentHistory is returned. The rebuilt position is nil when the
// ticker has no transactions left.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) (*models.Position, error) {
	ticker, err := s.tickerOf(ctx, id)
	if err != nil {
		return nil, err
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
	if err := tx.DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	pos, err := s.processor.Rebuild(ctx, tx, ticker)
	if err != nil {
		if ledger.IsBusinessRule(err) {
			return nil, fmt.Errorf("%w: %v", ErrInconsistentHistory, err)
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("deleted transaction %d and rebuilt %s", id, ticker)
	return pos, nil
}

// tickerOf looks up which ticker a transaction belongs to
func (s *LedgerService) tickerOf(ctx context.Context, id int64) (string, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := tx.GetTransaction(ctx, id)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return "", ErrTransactionNotFound
	}
	if err != nil {
		return "", err
	}
	return t.Ticker, nil
}

// ListTransactions returns recent transactions, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, req models.ListTransactionsRequest) ([]models.Transaction, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ticker := ""
	if req.Ticker != "" {
		var err error
		if ticker, err = parsers.ParseTicker(req.Ticker); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
		}
	}

	txns, err := s.store.ListRecentTransactions(ctx, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return txns, nil
}

// RebuildPosition replays the full history of a ticker and stores the result
func (s *LedgerService) RebuildPosition(ctx context.Context, rawTicker string) (*models.Position, error) {
	defer TrackTime("RebuildPosition", time.Now())

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
	pos, err := s.processor.Rebuild(ctx, tx, ticker)
	if err != nil {
		if ledger.IsBusinessRule(err) {
			return nil, fmt.Errorf("%w: %v", ErrInconsistentHistory, err)
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return pos, nil
}

// Import runs a file import. See importer.Importer.Import for the error contract.
func (s *LedgerService) Import(ctx context.Context, raw []byte, opts importer.Options) (*models.ImportOutcome, error) {
	defer TrackTime("Import", time.Now())
	return s.importer.Import(ctx, raw, opts)
}

// DetectFormat reports the layout of a file without importing it
func (s *LedgerService) DetectFormat(raw []byte) (*format.Detection, error) {
	return s.importer.Detect(raw)
}
