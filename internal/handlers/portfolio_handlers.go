package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/parsers"
	"github.com/epeers/stocktracker/internal/services"
	"github.com/gin-gonic/gin"
)

// PortfolioHandler handles the valuation endpoints
type PortfolioHandler struct {
	portfolioSvc *services.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioSvc *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioSvc: portfolioSvc,
	}
}

// GetPortfolio handles GET /portfolio
// @Summary Get the portfolio
// @Description Open holdings valued at current quotes, plus the portfolio summary
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.PortfolioResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	ctx, wc := services.NewWarningContext(c.Request.Context())
	holdings, summary, err := h.portfolioSvc.GetPortfolio(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.PortfolioResponse{
		Holdings: holdings,
		Summary:  summary,
		Warnings: wc.GetWarnings(),
	})
}

// ListHoldings handles GET /portfolio/holdings
// @Summary List holdings
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.Holding
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/holdings [get]
func (h *PortfolioHandler) ListHoldings(c *gin.Context) {
	holdings, err := h.portfolioSvc.GetHoldings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, holdings)
}

// GetHolding handles GET /portfolio/holdings/:ticker
// @Summary Get one holding
// @Tags portfolio
// @Produce json
// @Param ticker path string true "Ticker, e.g. WEGE3"
// @Success 200 {object} models.Holding
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/holdings/{ticker} [get]
func (h *PortfolioHandler) GetHolding(c *gin.Context) {
	ticker, err := parsers.ParseTicker(c.Param("ticker"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	holding, err := h.portfolioSvc.GetHolding(c.Request.Context(), ticker)
	if err != nil {
		if errors.Is(err, services.ErrPositionNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "no open position for " + ticker,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, holding)
}

// GetSummary handles GET /portfolio/summary
// @Summary Get the portfolio summary
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.PortfolioSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	_, summary, err := h.portfolioSvc.GetPortfolio(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}
