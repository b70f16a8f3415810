package services

import (
	"context"
	"sync"

	"github.com/epeers/stocktracker/internal/models"
)

type warningContextKey struct{}

// WarningCollector accumulates the warnings of one request. A warning with
// the same code and message as an earlier one is kept once.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
	seen     map[models.Warning]bool
}

// NewWarningContext returns a context carrying a fresh WarningCollector,
// plus a reference to the collector so the handler can retrieve warnings later.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{seen: make(map[models.Warning]bool)}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning records w on the collector in ctx.
// If ctx has no collector, the call is a no-op.
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if wc.seen[w] {
		return
	}
	wc.seen[w] = true
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns a copy of the collected warnings in the order added.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	out := make([]models.Warning, len(wc.warnings))
	copy(out, wc.warnings)
	return out
}

// HasCode reports whether any collected warning carries code.
func (wc *WarningCollector) HasCode(code models.WarningCode) bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	for _, w := range wc.warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
