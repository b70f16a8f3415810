package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/shopspring/decimal"
)

var ErrPositionNotFound = errors.New("no open position for ticker")

// PositionReader lists open positions joined with their stock
type PositionReader interface {
	ListOpenPositions(ctx context.Context) ([]models.PositionWithStock, error)
	GetOpenPosition(ctx context.Context, ticker string) (*models.PositionWithStock, error)
}

// PortfolioService values open positions against current quotes
type PortfolioService struct {
	positions PositionReader
	pricing   *PricingService
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(positions PositionReader, pricing *PricingService) *PortfolioService {
	return &PortfolioService{positions: positions, pricing: pricing}
}

// GetHoldings returns every open position with market data where a quote is
// available. Missing quotes are reported as warnings on ctx.
func (s *PortfolioService) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	defer TrackTime("GetHoldings", time.Now())

	positions, err := s.positions.ListOpenPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return s.value(ctx, positions), nil
}

// GetHolding returns one open position with market data
func (s *PortfolioService) GetHolding(ctx context.Context, ticker string) (*models.Holding, error) {
	pos, err := s.positions.GetOpenPosition(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if pos == nil {
		return nil, ErrPositionNotFound
	}
	holdings := s.value(ctx, []models.PositionWithStock{*pos})
	return &holdings[0], nil
}

// GetPortfolio returns all holdings and their summary
func (s *PortfolioService) GetPortfolio(ctx context.Context) ([]models.Holding, models.PortfolioSummary, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return nil, models.PortfolioSummary{}, err
	}
	return holdings, Summarize(holdings), nil
}

func (s *PortfolioService) value(ctx context.Context, positions []models.PositionWithStock) []models.Holding {
	holdings := make([]models.Holding, 0, len(positions))
	if len(positions) == 0 {
		return holdings
	}

	tickers := make([]string, len(positions))
	for i, p := range positions {
		tickers[i] = p.Ticker
	}

	var quotes map[string]*models.Quote
	if s.pricing != nil {
		quotes = s.pricing.GetQuotes(ctx, tickers)
	}
	if s.pricing == nil || !s.pricing.Enabled() {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnQuotesDisabled,
			Message: "No quote provider configured; only cached market data is shown",
		})
	}

	for _, p := range positions {
		h := NewHolding(p, quotes[p.Ticker])
		if h.CurrentPrice == nil && s.pricing != nil && s.pricing.Enabled() {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnQuoteUnavailable,
				Message: fmt.Sprintf("No quote available for %s", p.Ticker),
			})
		}
		if h.CurrentPrice != nil && h.GainLossPercent == nil {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnZeroCostBasis,
				Message: fmt.Sprintf("%s has a zero cost basis; gain percentage is undefined", p.Ticker),
			})
		}
		holdings = append(holdings, h)
	}
	return holdings
}

// NewHolding combines a position with an optional quote. Without a positive
// quote price every market field stays nil.
func NewHolding(p models.PositionWithStock, quote *models.Quote) models.Holding {
	h := models.Holding{
		Ticker:        p.Ticker,
		StockName:     p.StockName,
		Sector:        p.Sector,
		Quantity:      p.Quantity,
		AveragePrice:  p.AverageCost,
		FirstBuyDate:  p.FirstBuyDate,
		Notes:         p.Notes,
		TotalInvested: p.TotalInvested(),
	}
	if quote == nil || !quote.Price.IsPositive() {
		return h
	}

	price := quote.Price
	value := price.Mul(decimal.NewFromInt(p.Quantity))
	gain := value.Sub(h.TotalInvested)
	h.CurrentPrice = &price
	h.CurrentValue = &value
	h.GainLoss = &gain
	h.ChangeToday = quote.ChangePercent
	if h.TotalInvested.IsPositive() {
		pct := percentChange(value, h.TotalInvested)
		h.GainLossPercent = &pct
	}
	return h
}

// Summarize aggregates holdings. Current value only counts holdings that
// have a quote, while total invested counts all of them.
func Summarize(holdings []models.Holding) models.PortfolioSummary {
	summary := models.PortfolioSummary{
		TotalInvested: decimal.Zero,
		CurrentValue:  decimal.Zero,
		TotalGainLoss: decimal.Zero,
		HoldingsCount: len(holdings),
	}

	var best, worst *models.Holding
	for i := range holdings {
		h := &holdings[i]
		summary.TotalInvested = summary.TotalInvested.Add(h.TotalInvested)
		if h.CurrentValue != nil {
			summary.CurrentValue = summary.CurrentValue.Add(*h.CurrentValue)
		}
		if h.GainLossPercent == nil {
			continue
		}
		if best == nil || *h.GainLossPercent > *best.GainLossPercent {
			best = h
		}
		if worst == nil || *h.GainLossPercent < *worst.GainLossPercent {
			worst = h
		}
	}

	summary.TotalGainLoss = summary.CurrentValue.Sub(summary.TotalInvested)
	if summary.TotalInvested.IsPositive() {
		summary.TotalGainLossPercent = percentChange(summary.CurrentValue, summary.TotalInvested)
	}
	if best != nil {
		summary.BestPerformer = &best.Ticker
		summary.WorstPerformer = &worst.Ticker
	}
	return summary
}

// percentChange is (current/base - 1) * 100, rounded to 2 places
func percentChange(current, base decimal.Decimal) float64 {
	pct := current.Div(base).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(2)
	f, _ := pct.Float64()
	return f
}
