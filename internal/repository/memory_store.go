package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/models"
)

var errTxDone = errors.New("transaction already committed or rolled back")

// MemoryStore is an in-process ledger store. Writes go through an overlay
// transaction and become visible only on Commit. Used by tests and anywhere a
// database is not wanted.
type MemoryStore struct {
	mu          sync.RWMutex
	stocks      map[string]models.Stock
	positions   map[string]models.Position
	txns        map[int64]models.Transaction
	lastDates   map[string]time.Time
	nextStockID int64
	nextTxnID   int64

	// FailOn makes the named Tx method return an error, for exercising
	// rollback paths.
	FailOn string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks:    make(map[string]models.Stock),
		positions: make(map[string]models.Position),
		txns:      make(map[int64]models.Transaction),
		lastDates: make(map[string]time.Time),
	}
}

// AddStock registers a stock directly, outside any transaction.
func (s *MemoryStore) AddStock(ticker, name string) models.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextStockID++
	st := models.Stock{ID: s.nextStockID, Ticker: ticker, Name: name, IsActive: true, CreatedAt: time.Now()}
	s.stocks[ticker] = st
	return st
}

// ListStocks returns committed stocks ordered by ticker
func (s *MemoryStore) ListStocks(ctx context.Context, activeOnly bool) ([]models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Stock
	for _, st := range s.stocks {
		if st.IsActive || !activeOnly {
			result = append(result, st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Ticker < result[j].Ticker })
	return result, nil
}

// CreateStock registers a stock outside any transaction
func (s *MemoryStore) CreateStock(ctx context.Context, st *models.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[st.Ticker]; ok {
		return ErrStockExists
	}
	s.nextStockID++
	st.ID = s.nextStockID
	st.CreatedAt = time.Now()
	s.stocks[st.Ticker] = *st
	return nil
}

// UpdateStock overwrites the mutable fields of the stock with st.Ticker
func (s *MemoryStore) UpdateStock(ctx context.Context, st *models.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.stocks[st.Ticker]
	if !ok {
		return ErrStockNotFound
	}
	cur.Name = st.Name
	cur.Sector = st.Sector
	cur.IsActive = st.IsActive
	s.stocks[st.Ticker] = cur
	return nil
}

// DeleteStock removes a stock nothing references
func (s *MemoryStore) DeleteStock(ctx context.Context, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[ticker]; !ok {
		return ErrStockNotFound
	}
	if _, ok := s.positions[ticker]; ok {
		return ErrStockInUse
	}
	if _, ok := s.lastDates[ticker]; ok {
		return ErrStockInUse
	}
	delete(s.stocks, ticker)
	return nil
}

// BeginTx starts a new overlay transaction
func (s *MemoryStore) BeginTx(ctx context.Context) (ledger.Tx, error) {
	return &memoryTx{
		store:     s,
		stocks:    make(map[string]models.Stock),
		positions: make(map[string]*models.Position),
		inserted:  make(map[int64]models.Transaction),
		deleted:   make(map[int64]bool),
		lastDates: make(map[string]time.Time),
		dirty:     make(map[string]bool),
	}, nil
}

// GetStock looks up a committed stock by ticker
func (s *MemoryStore) GetStock(ctx context.Context, ticker string) (*models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stocks[ticker]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// ListOpenPositions returns positions with quantity > 0 joined with their stock, by ticker
func (s *MemoryStore) ListOpenPositions(ctx context.Context) ([]models.PositionWithStock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.PositionWithStock
	for _, p := range s.positions {
		if p.Quantity > 0 {
			result = append(result, s.withStock(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Ticker < result[j].Ticker })
	return result, nil
}

// GetOpenPosition returns one open position joined with its stock, or nil
func (s *MemoryStore) GetOpenPosition(ctx context.Context, ticker string) (*models.PositionWithStock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[ticker]
	if !ok || p.Quantity == 0 {
		return nil, nil
	}
	pw := s.withStock(p)
	return &pw, nil
}

func (s *MemoryStore) withStock(p models.Position) models.PositionWithStock {
	pw := models.PositionWithStock{Position: p, StockName: p.Ticker}
	if st, ok := s.stocks[p.Ticker]; ok {
		pw.StockName = st.Name
		pw.Sector = st.Sector
	}
	return pw
}

// ListRecentTransactions returns transactions newest first, optionally for one ticker
func (s *MemoryStore) ListRecentTransactions(ctx context.Context, ticker string, limit int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Transaction
	for _, t := range s.txns {
		if ticker == "" || t.Ticker == ticker {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// memoryTx buffers writes on top of the committed state.
type memoryTx struct {
	store     *MemoryStore
	stocks    map[string]models.Stock
	positions map[string]*models.Position // nil value marks a deletion
	inserted  map[int64]models.Transaction
	deleted   map[int64]bool
	// lastDates is the running max trade date of inserted rows. A ticker
	// that had a row deleted in this tx is dirty and gets recomputed.
	lastDates map[string]time.Time
	dirty     map[string]bool
	done      bool
}

func (tx *memoryTx) check(op string) error {
	if tx.done {
		return errTxDone
	}
	if tx.store.FailOn != "" && strings.EqualFold(tx.store.FailOn, op) {
		return errors.New("memory store: injected failure in " + op)
	}
	return nil
}

// LockTicker is a no-op; callers serialize tickers with ledger.TickerLocks.
func (tx *memoryTx) LockTicker(ctx context.Context, ticker string) error {
	return tx.check("LockTicker")
}

func (tx *memoryTx) GetStock(ctx context.Context, ticker string) (*models.Stock, error) {
	if err := tx.check("GetStock"); err != nil {
		return nil, err
	}
	if st, ok := tx.stocks[ticker]; ok {
		return &st, nil
	}
	return tx.store.GetStock(ctx, ticker)
}

func (tx *memoryTx) CreateStock(ctx context.Context, st *models.Stock) error {
	if err := tx.check("CreateStock"); err != nil {
		return err
	}
	tx.store.mu.Lock()
	tx.store.nextStockID++
	st.ID = tx.store.nextStockID
	tx.store.mu.Unlock()
	st.CreatedAt = time.Now()
	tx.stocks[st.Ticker] = *st
	return nil
}

func (tx *memoryTx) GetPosition(ctx context.Context, ticker string) (*models.Position, error) {
	if err := tx.check("GetPosition"); err != nil {
		return nil, err
	}
	if p, ok := tx.positions[ticker]; ok {
		if p == nil {
			return nil, nil
		}
		cp := *p
		return &cp, nil
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	p, ok := tx.store.positions[ticker]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (tx *memoryTx) UpsertPosition(ctx context.Context, p *models.Position) error {
	if err := tx.check("UpsertPosition"); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	cp := *p
	tx.positions[p.Ticker] = &cp
	return nil
}

func (tx *memoryTx) DeletePosition(ctx context.Context, ticker string) error {
	if err := tx.check("DeletePosition"); err != nil {
		return err
	}
	tx.positions[ticker] = nil
	return nil
}

func (tx *memoryTx) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	if err := tx.check("InsertTransaction"); err != nil {
		return err
	}
	tx.store.mu.Lock()
	tx.store.nextTxnID++
	t.ID = tx.store.nextTxnID
	tx.store.mu.Unlock()
	t.CreatedAt = time.Now()
	tx.inserted[t.ID] = *t
	if t.Date.After(tx.lastDates[t.Ticker]) {
		tx.lastDates[t.Ticker] = t.Date
	}
	return nil
}

func (tx *memoryTx) LastTradeDate(ctx context.Context, ticker string) (time.Time, error) {
	if err := tx.check("LastTradeDate"); err != nil {
		return time.Time{}, err
	}
	if tx.dirty[ticker] {
		history, err := tx.ListTransactions(ctx, ticker)
		if err != nil || len(history) == 0 {
			return time.Time{}, err
		}
		return history[len(history)-1].Date, nil
	}
	tx.store.mu.RLock()
	last := tx.store.lastDates[ticker]
	tx.store.mu.RUnlock()
	if pending := tx.lastDates[ticker]; pending.After(last) {
		last = pending
	}
	return last, nil
}

func (tx *memoryTx) ListTransactions(ctx context.Context, ticker string) ([]models.Transaction, error) {
	if err := tx.check("ListTransactions"); err != nil {
		return nil, err
	}
	var result []models.Transaction
	tx.store.mu.RLock()
	for id, t := range tx.store.txns {
		if t.Ticker == ticker && !tx.deleted[id] {
			result = append(result, t)
		}
	}
	tx.store.mu.RUnlock()
	for _, t := range tx.inserted {
		if t.Ticker == ticker {
			result = append(result, t)
		}
	}
	ledger.SortForReplay(result)
	return result, nil
}

func (tx *memoryTx) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	if err := tx.check("GetTransaction"); err != nil {
		return nil, err
	}
	if t, ok := tx.inserted[id]; ok {
		return &t, nil
	}
	if tx.deleted[id] {
		return nil, ErrTransactionNotFound
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	t, ok := tx.store.txns[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return &t, nil
}

func (tx *memoryTx) DeleteTransaction(ctx context.Context, id int64) error {
	if err := tx.check("DeleteTransaction"); err != nil {
		return err
	}
	if t, ok := tx.inserted[id]; ok {
		delete(tx.inserted, id)
		tx.dirty[t.Ticker] = true
		return nil
	}
	t, err := tx.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	tx.deleted[id] = true
	tx.dirty[t.Ticker] = true
	return nil
}

func (tx *memoryTx) Commit(ctx context.Context) error {
	if err := tx.check("Commit"); err != nil {
		return err
	}
	tx.done = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, st := range tx.stocks {
		s.stocks[k] = st
	}
	for id := range tx.deleted {
		delete(s.txns, id)
	}
	for id, t := range tx.inserted {
		s.txns[id] = t
		if t.Date.After(s.lastDates[t.Ticker]) {
			s.lastDates[t.Ticker] = t.Date
		}
	}
	for ticker := range tx.dirty {
		s.recomputeLastDate(ticker)
	}
	for k, p := range tx.positions {
		if p == nil {
			delete(s.positions, k)
		} else {
			s.positions[k] = *p
		}
	}
	return nil
}

// recomputeLastDate rescans the committed rows of ticker. Caller holds s.mu.
func (s *MemoryStore) recomputeLastDate(ticker string) {
	var last time.Time
	for _, t := range s.txns {
		if t.Ticker == ticker && t.Date.After(last) {
			last = t.Date
		}
	}
	if last.IsZero() {
		delete(s.lastDates, ticker)
		return
	}
	s.lastDates[ticker] = last
}

// Rollback discards the overlay. Calling it after Commit is a no-op, matching
// the deferred-rollback pattern used with pgx.
func (tx *memoryTx) Rollback(ctx context.Context) error {
	tx.done = true
	return nil
}
