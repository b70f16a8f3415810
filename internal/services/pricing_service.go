package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/epeers/stocktracker/internal/alphavantage"
	"github.com/epeers/stocktracker/internal/cache"
	"github.com/epeers/stocktracker/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrQuotesDisabled = errors.New("no quote provider configured")

// QuoteProvider fetches a live quote for an exchange symbol
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*alphavantage.ParsedQuote, error)
}

// QuoteStore is the persistent (L2) quote cache
type QuoteStore interface {
	GetCachedQuote(ctx context.Context, ticker string, maxAge time.Duration) (*models.Quote, error)
	CacheQuote(ctx context.Context, quote *models.Quote) error
}

// PricingOptions tune quote lookups
type PricingOptions struct {
	Workers int
	TTL     time.Duration
	// Suffix is appended to tickers to form the provider symbol, e.g. ".SAO"
	Suffix string
}

// PricingService resolves quotes through the memory cache, the Postgres
// cache and finally the quote provider
type PricingService struct {
	memCache  *cache.MemoryCache
	quoteRepo QuoteStore
	provider  QuoteProvider
	opts      PricingOptions
}

// NewPricingService creates a new PricingService. quoteRepo and provider may
// be nil; without a provider only cached quotes are returned.
func NewPricingService(memCache *cache.MemoryCache, quoteRepo QuoteStore, provider QuoteProvider, opts PricingOptions) *PricingService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if memCache == nil {
		memCache = cache.NewMemoryCache(opts.TTL)
	}
	return &PricingService{memCache: memCache, quoteRepo: quoteRepo, provider: provider, opts: opts}
}

// Enabled reports whether live quotes can be fetched
func (s *PricingService) Enabled() bool {
	return s.provider != nil
}

// GetQuote fetches a quote for one ticker, consulting both caches first
func (s *PricingService) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	if q, ok := s.memCache.GetQuote(ticker); ok {
		return q, nil
	}

	if s.quoteRepo != nil {
		q, err := s.quoteRepo.GetCachedQuote(ctx, ticker, s.opts.TTL)
		if err != nil {
			log.Warnf("quote cache lookup for %s failed: %v", ticker, err)
		} else if q != nil {
			s.memCache.SetQuote(ticker, q)
			return q, nil
		}
	}

	if s.provider == nil {
		return nil, ErrQuotesDisabled
	}

	avQuote, err := s.provider.GetQuote(ctx, s.symbol(ticker))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}

	quote := &models.Quote{
		Ticker:        ticker,
		Price:         avQuote.Price,
		ChangePercent: avQuote.ChangePercent,
		FetchedAt:     time.Now(),
	}
	s.memCache.SetQuote(ticker, quote)
	if s.quoteRepo != nil {
		if err := s.quoteRepo.CacheQuote(ctx, quote); err != nil {
			log.Warnf("failed to cache quote for %s: %v", ticker, err)
		}
	}
	return quote, nil
}

// GetQuotes fetches quotes for many tickers with at most Workers lookups in
// flight. Lookups are best effort: failures are logged and the ticker is
// left out of the result.
func (s *PricingService) GetQuotes(ctx context.Context, tickers []string) map[string]*models.Quote {
	defer TrackTime("GetQuotes", time.Now())

	result := make(map[string]*models.Quote, len(tickers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for _, ticker := range tickers {
		g.Go(func() error {
			q, err := s.GetQuote(gctx, ticker)
			if errors.Is(err, ErrQuotesDisabled) {
				return nil
			}
			if err != nil {
				log.Warnf("quote unavailable for %s: %v", ticker, err)
				return nil
			}
			mu.Lock()
			result[ticker] = q
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}

func (s *PricingService) symbol(ticker string) string {
	if s.opts.Suffix == "" || strings.HasSuffix(ticker, s.opts.Suffix) {
		return ticker
	}
	return ticker + s.opts.Suffix
}
