package ledger

import (
	"testing"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history() []models.Transaction {
	return []models.Transaction{
		txn(4, models.OperationSell, 30, "15.00", "2024-03-01"),
		txn(1, models.OperationBuy, 100, "10.00", "2024-01-01"),
		txn(3, models.OperationBuy, 20, "12.50", "2024-02-01"),
		txn(2, models.OperationBuy, 50, "11.00", "2024-02-01"),
	}
}

func TestReplay_OrdersByDateThenInsertion(t *testing.T) {
	txns := history()
	SortForReplay(txns)
	ids := make([]int64, len(txns))
	for i, tx := range txns {
		ids[i] = tx.ID
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
}

func TestReplay_MatchesIncrementalApplication(t *testing.T) {
	p := Processor{}
	ordered := history()
	SortForReplay(ordered)

	var incremental *models.Position
	for _, tx := range ordered {
		next, err := p.Apply(incremental, tx)
		require.NoError(t, err)
		incremental = &next
	}

	replayed, err := p.Replay("WEGE3", history())
	require.NoError(t, err)
	assert.Equal(t, *incremental, *replayed)
	assert.Equal(t, int64(140), replayed.Quantity)
}

func TestReplay_Idempotent(t *testing.T) {
	p := Processor{}
	txns := history()
	first, err := p.Replay("WEGE3", txns)
	require.NoError(t, err)
	second, err := p.Replay("WEGE3", txns)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, history(), txns, "input slice is not reordered")
}

func TestReplay_DeletionConsistency(t *testing.T) {
	p := Processor{}
	full := history()
	for i := range full {
		remaining := make([]models.Transaction, 0, len(full)-1)
		remaining = append(remaining, full[:i]...)
		remaining = append(remaining, full[i+1:]...)

		afterDelete, err := p.Replay("WEGE3", remaining)
		require.NoError(t, err)

		// Import the remaining rows one by one, as if the deleted one never existed.
		ordered := append([]models.Transaction(nil), remaining...)
		SortForReplay(ordered)
		var neverImported *models.Position
		for _, tx := range ordered {
			next, err := p.Apply(neverImported, tx)
			require.NoError(t, err)
			neverImported = &next
		}

		assert.Equal(t, neverImported, afterDelete, "dropping transaction %d", full[i].ID)
	}
}

func TestReplay_EmptyHistoryMeansNoPosition(t *testing.T) {
	pos, err := Processor{}.Replay("WEGE3", nil)
	require.NoError(t, err)
	assert.Nil(t, pos)
}

func TestReplay_UncoverableSellFails(t *testing.T) {
	txns := []models.Transaction{
		txn(1, models.OperationBuy, 10, "10.00", "2024-01-01"),
		txn(2, models.OperationSell, 20, "10.00", "2024-01-02"),
	}
	_, err := Processor{}.Replay("WEGE3", txns)
	require.ErrorIs(t, err, ErrInsufficientShares)
	assert.Contains(t, err.Error(), "2024-01-02")
}

func TestReplay_ReopenAfterCloseUsesNewCost(t *testing.T) {
	txns := []models.Transaction{
		txn(1, models.OperationBuy, 10, "10.00", "2024-01-01"),
		txn(2, models.OperationSell, 10, "12.00", "2024-01-05"),
		txn(3, models.OperationBuy, 4, "20.00", "2024-02-01"),
	}
	for _, policy := range []ClosePolicy{ResetOnClose, RetainOnClose} {
		pos, err := Processor{Policy: policy}.Replay("WEGE3", txns)
		require.NoError(t, err)
		assert.Equal(t, int64(4), pos.Quantity)
		assert.True(t, decimal.RequireFromString("20").Equal(pos.AverageCost), policy.String())
		assert.Equal(t, day("2024-02-01"), *pos.FirstBuyDate)
	}
}

func TestReplay_RejectsForeignTicker(t *testing.T) {
	txns := history()
	txns[0].Ticker = "PETR4"
	_, err := Processor{}.Replay("WEGE3", txns)
	assert.Error(t, err)
}
