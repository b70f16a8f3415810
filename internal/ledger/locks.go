package ledger

import (
	"sort"
	"sync"
)

// TickerLocks is an in-process keyed mutex. Writers of the same ticker queue
// up; different tickers proceed in parallel.
type TickerLocks struct {
	mu    sync.Mutex
	locks map[string]*tickerLock
}

type tickerLock struct {
	mu   sync.Mutex
	refs int
}

func NewTickerLocks() *TickerLocks {
	return &TickerLocks{locks: make(map[string]*tickerLock)}
}

// Lock acquires every ticker in sorted order and returns a function that
// releases them all. Duplicates are ignored. A caller must pass every ticker
// it needs in a single call and must not call Lock again before unlocking.
func (l *TickerLocks) Lock(tickers ...string) (unlock func()) {
	keys := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		if !seen[t] {
			seen[t] = true
			keys = append(keys, t)
		}
	}
	sort.Strings(keys)

	held := make([]*tickerLock, 0, len(keys))
	for _, k := range keys {
		l.mu.Lock()
		tl, ok := l.locks[k]
		if !ok {
			tl = &tickerLock{}
			l.locks[k] = tl
		}
		tl.refs++
		l.mu.Unlock()

		tl.mu.Lock()
		held = append(held, tl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(l.locks, keys[i])
			}
			l.mu.Unlock()
		}
	}
}
