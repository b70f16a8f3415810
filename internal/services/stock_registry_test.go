package services

import (
	"context"
	"testing"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateStock_EnablesManualEntry(t *testing.T) {
	svc, _ := newLedgerFixture()
	ctx := context.Background()

	_, _, err := svc.RecordTransaction(ctx, request("ITUB4", models.OperationBuy, 10, "30", "2024-01-10"))
	require.ErrorIs(t, err, ErrStockNotFound)

	stock, err := svc.CreateStock(ctx, &models.StockRequest{Ticker: " itub4 ", Name: " Itaú Unibanco PN ", Sector: strPtr(" ")})
	require.NoError(t, err)
	assert.Equal(t, "ITUB4", stock.Ticker)
	assert.Equal(t, "Itaú Unibanco PN", stock.Name)
	assert.Nil(t, stock.Sector)

	_, _, err = svc.RecordTransaction(ctx, request("ITUB4", models.OperationBuy, 10, "30", "2024-01-10"))
	require.NoError(t, err)

	_, err = svc.CreateStock(ctx, &models.StockRequest{Ticker: "ITUB4", Name: "again"})
	assert.ErrorIs(t, err, ErrStockExists)
}

func TestUpdateStock_Partial(t *testing.T) {
	svc, _ := newLedgerFixture()
	ctx := context.Background()
	_, err := svc.CreateStock(ctx, &models.StockRequest{Ticker: "VALE3", Name: "Vale ON", Sector: strPtr("Mining")})
	require.NoError(t, err)

	stock, err := svc.UpdateStock(ctx, "vale3", &models.StockUpdateRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Vale ON", stock.Name)
	require.NotNil(t, stock.Sector)
	assert.Equal(t, "Mining", *stock.Sector)
	assert.False(t, stock.IsActive)

	active, err := svc.ListStocks(ctx, models.ListStocksRequest{})
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.NotNil(t, active)

	all, err := svc.ListStocks(ctx, models.ListStocksRequest{ActiveOnly: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.UpdateStock(ctx, "VALE3", &models.StockUpdateRequest{Name: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestDeleteStock_OnlyWhenUnreferenced(t *testing.T) {
	svc, _ := newLedgerFixture("WEGE3")
	ctx := context.Background()

	txn, _, err := svc.RecordTransaction(ctx, request("WEGE3", models.OperationBuy, 10, "30", "2024-01-10"))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteStock(ctx, "WEGE3"), ErrStockInUse)

	_, err = svc.DeleteTransaction(ctx, txn.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteStock(ctx, "WEGE3"))
	assert.ErrorIs(t, svc.DeleteStock(ctx, "WEGE3"), ErrStockNotFound)
}

func TestUpdatePositionNotes_ClosedPosition(t *testing.T) {
	svc, _ := newLedgerFixture("WEGE3")
	ctx := context.Background()

	_, _, err := svc.RecordTransaction(ctx, request("WEGE3", models.OperationBuy, 10, "30", "2024-01-10"))
	require.NoError(t, err)
	_, _, err = svc.RecordTransaction(ctx, request("WEGE3", models.OperationSell, 10, "35", "2024-02-10"))
	require.NoError(t, err)

	pos, err := svc.UpdatePositionNotes(ctx, "WEGE3", strPtr("sold after earnings"))
	require.NoError(t, err)
	assert.Zero(t, pos.Quantity)
	require.NotNil(t, pos.Notes)

	_, _, err = svc.RecordTransaction(ctx, request("WEGE3", models.OperationBuy, 5, "28", "2024-03-10"))
	require.NoError(t, err)
	rebuilt, err := svc.RebuildPosition(ctx, "WEGE3")
	require.NoError(t, err)
	require.NotNil(t, rebuilt.Notes)
	assert.Equal(t, "sold after earnings", *rebuilt.Notes)

	_, err = svc.UpdatePositionNotes(ctx, "PETR4", nil)
	assert.ErrorIs(t, err, ErrPositionNotFound)
}
