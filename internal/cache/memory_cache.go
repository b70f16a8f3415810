package cache

import (
	"sync"
	"time"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/util"
)

// MemoryCache provides an in-memory L1 cache for quotes
type MemoryCache struct {
	quotes   map[string]quoteEntry
	quoteMu  sync.RWMutex
	quoteTTL time.Duration
	now      func() time.Time
}

type quoteEntry struct {
	quote     *models.Quote
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(quoteTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		quotes:   make(map[string]quoteEntry),
		quoteTTL: quoteTTL,
		now:      time.Now,
	}
}

// GetQuote retrieves a quote from the cache if not expired
func (c *MemoryCache) GetQuote(ticker string) (*models.Quote, bool) {
	c.quoteMu.RLock()
	defer c.quoteMu.RUnlock()

	entry, ok := c.quotes[ticker]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.quote, true
}

// SetQuote stores a quote in the cache. The entry expires one TTL after the
// quote's FetchedAt, so a quote promoted from a slower cache keeps its age.
// A quote fetched while the market is closed stays valid at least until the
// next session opens. A zero FetchedAt counts as fetched now.
func (c *MemoryCache) SetQuote(ticker string, quote *models.Quote) {
	fetched := quote.FetchedAt
	if fetched.IsZero() {
		fetched = c.now()
	}
	expiresAt := fetched.Add(c.quoteTTL)
	if !util.MarketOpen(fetched) {
		if open := util.NextMarketOpen(fetched); open.After(expiresAt) {
			expiresAt = open
		}
	}

	c.quoteMu.Lock()
	defer c.quoteMu.Unlock()
	c.quotes[ticker] = quoteEntry{
		quote:     quote,
		expiresAt: expiresAt,
	}
}

// InvalidateQuote removes a quote from the cache
func (c *MemoryCache) InvalidateQuote(ticker string) {
	c.quoteMu.Lock()
	defer c.quoteMu.Unlock()
	delete(c.quotes, ticker)
}

// Clear removes all entries from the cache
func (c *MemoryCache) Clear() {
	c.quoteMu.Lock()
	defer c.quoteMu.Unlock()
	c.quotes = make(map[string]quoteEntry)
}
