package ledger

import (
	"fmt"
	"sort"

	"github.com/epeers/stocktracker/internal/models"
)

// SortForReplay orders transactions by trade date, then by insertion order
// (ID) for same-day entries. The slice is sorted in place.
func SortForReplay(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
}

// Replay folds the full transaction history of one ticker through the
// processor, starting from an empty position. It returns nil when there are
// no transactions, meaning the position should not exist. The caller's slice
// is not reordered.
func (p Processor) Replay(ticker string, txns []models.Transaction) (*models.Position, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	ordered := make([]models.Transaction, len(txns))
	copy(ordered, txns)
	SortForReplay(ordered)

	var pos *models.Position
	for _, t := range ordered {
		if t.Ticker != ticker {
			return nil, fmt.Errorf("replay %s: transaction %d belongs to %s", ticker, t.ID, t.Ticker)
		}
		next, err := p.Apply(pos, t)
		if err != nil {
			return nil, fmt.Errorf("replay %s: transaction %d on %s: %w",
				ticker, t.ID, t.Date.Format(models.DateLayout), err)
		}
		pos = &next
	}
	return pos, nil
}
