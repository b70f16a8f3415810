package services

import (
	"context"
	"testing"
	"time"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededPortfolio(t *testing.T) *repository.MemoryStore {
	t.Helper()
	svc, store := newLedgerFixture("WEGE3", "PETR4", "ITUB4")
	ctx := context.Background()
	for _, req := range []*models.TransactionRequest{
		request("WEGE3", models.OperationBuy, 100, "30.00", "2024-01-10"),
		request("PETR4", models.OperationBuy, 200, "40.00", "2024-01-11"),
		request("ITUB4", models.OperationBuy, 10, "20.00", "2024-01-12"),
		request("ITUB4", models.OperationSell, 10, "25.00", "2024-01-13"),
	} {
		_, _, err := svc.RecordTransaction(ctx, req)
		require.NoError(t, err)
	}
	return store
}

func TestGetPortfolio_WithQuotes(t *testing.T) {
	store := seededPortfolio(t)
	provider := &fakeProvider{prices: map[string]string{"WEGE3.SAO": "33.00", "PETR4.SAO": "36.00"}}
	svc := NewPortfolioService(store, NewPricingService(nil, nil, provider, PricingOptions{Workers: 4, Suffix: ".SAO"}))

	ctx, wc := NewWarningContext(context.Background())
	holdings, summary, err := svc.GetPortfolio(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 2, "closed positions are not holdings")
	assert.Empty(t, wc.GetWarnings())

	petr := holdings[0]
	assert.Equal(t, "PETR4", petr.Ticker)
	assert.Equal(t, "PETR4 SA", petr.StockName)
	assert.Equal(t, "8000", petr.TotalInvested.String())
	assert.Equal(t, "7200", petr.CurrentValue.String())
	assert.Equal(t, "-800", petr.GainLoss.String())
	assert.Equal(t, -10.0, *petr.GainLossPercent)
	assert.Equal(t, 1.5, *petr.ChangeToday)

	assert.Equal(t, "11000", summary.TotalInvested.String())
	assert.Equal(t, "10500", summary.CurrentValue.String())
	assert.Equal(t, "-500", summary.TotalGainLoss.String())
	assert.InDelta(t, -4.55, summary.TotalGainLossPercent, 0.001)
	assert.Equal(t, 2, summary.HoldingsCount)
	assert.Equal(t, "WEGE3", *summary.BestPerformer)
	assert.Equal(t, "PETR4", *summary.WorstPerformer)
}

func TestGetHoldings_MissingQuoteWarns(t *testing.T) {
	store := seededPortfolio(t)
	provider := &fakeProvider{prices: map[string]string{"WEGE3.SAO": "33.00"}}
	svc := NewPortfolioService(store, NewPricingService(nil, nil, provider, PricingOptions{Suffix: ".SAO"}))

	ctx, wc := NewWarningContext(context.Background())
	holdings, err := svc.GetHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Nil(t, holdings[0].CurrentPrice)
	assert.Nil(t, holdings[0].GainLossPercent)

	warnings := wc.GetWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarnQuoteUnavailable, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "PETR4")
}

func TestGetHoldings_QuotesDisabled(t *testing.T) {
	store := seededPortfolio(t)
	svc := NewPortfolioService(store, NewPricingService(nil, nil, nil, PricingOptions{}))

	ctx, wc := NewWarningContext(context.Background())
	holdings, summary, err := svc.GetPortfolio(ctx)
	require.NoError(t, err)
	assert.Len(t, holdings, 2)
	assert.True(t, summary.CurrentValue.IsZero())
	assert.Nil(t, summary.BestPerformer)

	warnings := wc.GetWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarnQuotesDisabled, warnings[0].Code)
}

func TestGetHolding(t *testing.T) {
	store := seededPortfolio(t)
	svc := NewPortfolioService(store, nil)

	h, err := svc.GetHolding(context.Background(), "WEGE3")
	require.NoError(t, err)
	assert.Equal(t, int64(100), h.Quantity)

	_, err = svc.GetHolding(context.Background(), "ITUB4")
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestNewHolding_ZeroCostBasis(t *testing.T) {
	pos := models.PositionWithStock{Position: models.Position{Ticker: "WEGE3", Quantity: 10, AverageCost: decimal.Zero}}
	h := NewHolding(pos, &models.Quote{Ticker: "WEGE3", Price: decimal.NewFromInt(5), FetchedAt: time.Now()})
	require.NotNil(t, h.CurrentValue)
	assert.Nil(t, h.GainLossPercent)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.HoldingsCount)
	assert.True(t, s.TotalInvested.IsZero())
	assert.Equal(t, 0.0, s.TotalGainLossPercent)
	assert.Nil(t, s.BestPerformer)
}
