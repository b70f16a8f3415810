package handlers

import (
	"net/http"

	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/services"
	"github.com/gin-gonic/gin"
)

// StockHandler handles the stock registry
type StockHandler struct {
	ledgerSvc *services.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerSvc *services.LedgerService) *StockHandler {
	return &StockHandler{
		ledgerSvc: ledgerSvc,
	}
}

// List handles GET /stocks
// @Summary List stocks
// @Tags stocks
// @Produce json
// @Param active_only query bool false "Only active stocks (default true)"
// @Success 200 {array} models.Stock
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) List(c *gin.Context) {
	var req models.ListStocksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	stocks, err := h.ledgerSvc.ListStocks(c.Request.Context(), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// Get handles GET /stocks/:ticker
// @Summary Get a stock
// @Tags stocks
// @Produce json
// @Param ticker path string true "Ticker"
// @Success 200 {object} models.Stock
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stocks/{ticker} [get]
func (h *StockHandler) Get(c *gin.Context) {
	stock, err := h.ledgerSvc.GetStock(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, stock)
}

// Create handles POST /stocks
// @Summary Register a stock
// @Description Transactions can only be recorded for registered tickers
// @Tags stocks
// @Accept json
// @Produce json
// @Param request body models.StockRequest true "Stock"
// @Success 201 {object} models.Stock
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stocks [post]
func (h *StockHandler) Create(c *gin.Context) {
	var req models.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	stock, err := h.ledgerSvc.CreateStock(c.Request.Context(), &req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stock)
}

// Update handles PATCH /stocks/:ticker
// @Summary Update a stock
// @Description Only the fields present are changed; an empty sector clears it
// @Tags stocks
// @Accept json
// @Produce json
// @Param ticker path string true "Ticker"
// @Param request body models.StockUpdateRequest true "Fields to change"
// @Success 200 {object} models.Stock
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stocks/{ticker} [patch]
func (h *StockHandler) Update(c *gin.Context) {
	var req models.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	stock, err := h.ledgerSvc.UpdateStock(c.Request.Context(), c.Param("ticker"), &req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, stock)
}

// Delete handles DELETE /stocks/:ticker
// @Summary Delete a stock
// @Description Only stocks without transactions or a position can be deleted
// @Tags stocks
// @Param ticker path string true "Ticker"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stocks/{ticker} [delete]
func (h *StockHandler) Delete(c *gin.Context) {
	if err := h.ledgerSvc.DeleteStock(c.Request.Context(), c.Param("ticker")); err != nil {
		writeLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
