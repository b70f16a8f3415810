package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/epeers/stocktracker/internal/alphavantage"
	"github.com/epeers/stocktracker/internal/cache"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves fixed prices and counts calls. Symbols without a price fail.
type fakeProvider struct {
	prices   map[string]string
	calls    int32
	inFlight int32
	maxSeen  int32
}

func (f *fakeProvider) GetQuote(ctx context.Context, symbol string) (*alphavantage.ParsedQuote, error) {
	atomic.AddInt32(&f.calls, 1)
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		m := atomic.LoadInt32(&f.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxSeen, m, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	p, ok := f.prices[symbol]
	if !ok {
		return nil, alphavantage.ErrNoQuote
	}
	change := 1.5
	return &alphavantage.ParsedQuote{Symbol: symbol, Price: decimal.RequireFromString(p), ChangePercent: &change}, nil
}

// memoryQuoteStore is an in-process QuoteStore
type memoryQuoteStore struct {
	mu     sync.Mutex
	quotes map[string]*models.Quote
	fail   bool
}

func (m *memoryQuoteStore) GetCachedQuote(ctx context.Context, ticker string, maxAge time.Duration) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("database unavailable")
	}
	q, ok := m.quotes[ticker]
	if !ok || time.Since(q.FetchedAt) > maxAge {
		return nil, nil
	}
	return q, nil
}

func (m *memoryQuoteStore) CacheQuote(ctx context.Context, q *models.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quotes == nil {
		m.quotes = make(map[string]*models.Quote)
	}
	m.quotes[q.Ticker] = q
	return nil
}

func TestGetQuote_CacheLayers(t *testing.T) {
	provider := &fakeProvider{prices: map[string]string{"WEGE3.SAO": "36.12"}}
	l2 := &memoryQuoteStore{}
	svc := NewPricingService(cache.NewMemoryCache(time.Minute), l2, provider, PricingOptions{Workers: 2, TTL: time.Minute, Suffix: ".SAO"})

	q, err := svc.GetQuote(context.Background(), "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, "WEGE3", q.Ticker)
	assert.Equal(t, "36.12", q.Price.String())
	assert.Contains(t, l2.quotes, "WEGE3", "fetched quotes are written to the database cache")

	_, err = svc.GetQuote(context.Background(), "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls, "second lookup is served from memory")

	// A fresh service shares only the database cache.
	svc2 := NewPricingService(nil, l2, provider, PricingOptions{TTL: time.Minute, Suffix: ".SAO"})
	_, err = svc2.GetQuote(context.Background(), "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls)
}

func TestGetQuote_DatabaseCacheFailureFallsThrough(t *testing.T) {
	provider := &fakeProvider{prices: map[string]string{"WEGE3.SAO": "36.12"}}
	svc := NewPricingService(nil, &memoryQuoteStore{fail: true}, provider, PricingOptions{Suffix: ".SAO"})

	q, err := svc.GetQuote(context.Background(), "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, "36.12", q.Price.String())
}

func TestGetQuote_Disabled(t *testing.T) {
	svc := NewPricingService(nil, nil, nil, PricingOptions{})
	assert.False(t, svc.Enabled())
	_, err := svc.GetQuote(context.Background(), "WEGE3")
	assert.ErrorIs(t, err, ErrQuotesDisabled)
}

func TestGetQuotes_BoundedAndBestEffort(t *testing.T) {
	provider := &fakeProvider{prices: map[string]string{
		"WEGE3.SAO": "36.12", "PETR4.SAO": "38.00", "ITUB4.SAO": "33.10", "VALE3.SAO": "62.00",
	}}
	svc := NewPricingService(nil, nil, provider, PricingOptions{Workers: 2, Suffix: ".SAO"})

	quotes := svc.GetQuotes(context.Background(), []string{"WEGE3", "PETR4", "ITUB4", "VALE3", "XXXX3"})
	assert.Len(t, quotes, 4)
	assert.NotContains(t, quotes, "XXXX3")
	assert.LessOrEqual(t, provider.maxSeen, int32(2))
}

func TestSymbol(t *testing.T) {
	svc := NewPricingService(nil, nil, nil, PricingOptions{Suffix: ".SAO"})
	assert.Equal(t, "WEGE3.SAO", svc.symbol("WEGE3"))
	assert.Equal(t, "WEGE3.SAO", svc.symbol("WEGE3.SAO"))

	plain := NewPricingService(nil, nil, nil, PricingOptions{})
	assert.Equal(t, "WEGE3", plain.symbol("WEGE3"))
}
