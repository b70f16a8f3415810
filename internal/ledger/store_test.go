package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, store *repository.MemoryStore, kind models.OperationKind, qty int64, price, date string) error {
	t.Helper()
	ctx := context.Background()
	d, err := time.Parse(models.DateLayout, date)
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = ledger.Processor{}.Record(ctx, tx, &models.Transaction{
		Ticker: "WEGE3", Kind: kind, Quantity: qty,
		Price: decimal.RequireFromString(price), Date: d, Fees: decimal.Zero,
	})
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func position(t *testing.T, store *repository.MemoryStore) *models.Position {
	t.Helper()
	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	pos, err := tx.GetPosition(ctx, "WEGE3")
	require.NoError(t, err)
	return pos
}

func TestRecord_BackdatedTransactionMatchesReplay(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddStock("WEGE3", "WEG ON")

	require.NoError(t, record(t, store, models.OperationBuy, 100, "10.00", "2024-03-01"))
	require.NoError(t, record(t, store, models.OperationSell, 100, "12.00", "2024-04-01"))
	require.Equal(t, int64(0), position(t, store).Quantity)

	// A backdated buy joins the cost basis of the lot that was later sold.
	require.NoError(t, record(t, store, models.OperationBuy, 50, "8.00", "2024-01-01"))

	pos := position(t, store)
	require.NotNil(t, pos)
	assert.Equal(t, int64(50), pos.Quantity)
	assert.Equal(t, "9.33333333", pos.AverageCost.String())
	assert.Equal(t, "2024-01-01", pos.FirstBuyDate.Format(models.DateLayout))
}

func TestRecord_BackdatedSellThatBreaksHistoryIsRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddStock("WEGE3", "WEG ON")

	require.NoError(t, record(t, store, models.OperationBuy, 100, "10.00", "2024-03-01"))
	err := record(t, store, models.OperationSell, 10, "12.00", "2024-01-01")
	require.ErrorIs(t, err, ledger.ErrInsufficientShares)

	recent, err := store.ListRecentTransactions(context.Background(), "WEGE3", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestRebuild_DeletesPositionWithoutHistory(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.AddStock("WEGE3", "WEG ON")
	require.NoError(t, record(t, store, models.OperationBuy, 10, "10.00", "2024-01-01"))

	recent, err := store.ListRecentTransactions(ctx, "WEGE3", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.DeleteTransaction(ctx, recent[0].ID))
	pos, err := ledger.Processor{}.Rebuild(ctx, tx, "WEGE3")
	require.NoError(t, err)
	assert.Nil(t, pos)
	require.NoError(t, tx.Commit(ctx))

	assert.Nil(t, position(t, store))
}

func TestRebuild_KeepsPositionNotes(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.AddStock("WEGE3", "WEG ON")
	require.NoError(t, record(t, store, models.OperationBuy, 10, "10.00", "2024-01-01"))

	note := "long term"
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	pos, err := tx.GetPosition(ctx, "WEGE3")
	require.NoError(t, err)
	pos.Notes = &note
	require.NoError(t, tx.UpsertPosition(ctx, pos))

	rebuilt, err := ledger.Processor{}.Rebuild(ctx, tx, "WEGE3")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	require.NotNil(t, rebuilt.Notes)
	assert.Equal(t, note, *rebuilt.Notes)
}

// countingTx records how often the full history is loaded.
type countingTx struct {
	ledger.Tx
	historyLoads int
}

func (c *countingTx) ListTransactions(ctx context.Context, ticker string) ([]models.Transaction, error) {
	c.historyLoads++
	return c.Tx.ListTransactions(ctx, ticker)
}

func TestRecord_ForwardDatedRowsNeverLoadHistory(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.AddStock("WEGE3", "WEG ON")

	inner, err := store.BeginTx(ctx)
	require.NoError(t, err)
	tx := &countingTx{Tx: inner}
	defer tx.Rollback(ctx)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	const rows = 3000
	for i := 0; i < rows; i++ {
		_, err := ledger.Processor{}.Record(ctx, tx, &models.Transaction{
			Ticker: "WEGE3", Kind: models.OperationBuy, Quantity: 1,
			Price: decimal.RequireFromString("10.00"), Date: start.AddDate(0, 0, i/3), Fees: decimal.Zero,
		})
		require.NoError(t, err)
	}
	assert.Zero(t, tx.historyLoads)

	last, err := tx.LastTradeDate(ctx, "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, (rows-1)/3), last)

	// A backdated row falls back to a full replay, once.
	pos, err := ledger.Processor{}.Record(ctx, tx, &models.Transaction{
		Ticker: "WEGE3", Kind: models.OperationSell, Quantity: 1,
		Price: decimal.RequireFromString("12.00"), Date: start.AddDate(0, 0, 1), Fees: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.historyLoads)
	assert.Equal(t, int64(rows-1), pos.Quantity)
	require.NoError(t, tx.Commit(ctx))
}

func TestLastTradeDate_FollowsDeletes(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.AddStock("WEGE3", "WEG ON")
	require.NoError(t, record(t, store, models.OperationBuy, 10, "10.00", "2024-01-01"))
	require.NoError(t, record(t, store, models.OperationBuy, 10, "11.00", "2024-02-01"))

	recent, err := store.ListRecentTransactions(ctx, "WEGE3", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.DeleteTransaction(ctx, recent[0].ID))
	last, err := tx.LastTradeDate(ctx, "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", last.Format(models.DateLayout))
	_, err = ledger.Processor{}.Rebuild(ctx, tx, "WEGE3")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	// A backdated-looking date is now the newest, so it applies incrementally.
	require.NoError(t, record(t, store, models.OperationSell, 5, "12.00", "2024-01-15"))
	assert.Equal(t, int64(5), position(t, store).Quantity)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	last, err = tx.LastTradeDate(ctx, "NOPE3")
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
