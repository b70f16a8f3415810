package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/services"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles manual ledger edits
type TransactionHandler struct {
	ledgerSvc *services.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledgerSvc *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerSvc: ledgerSvc,
	}
}

// List handles GET /portfolio/transactions
// @Summary List transactions
// @Description Newest first, by trade date then insertion order
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum rows (default 50)"
// @Param ticker query string false "Only this ticker"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req models.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	txns, err := h.ledgerSvc.ListTransactions(c.Request.Context(), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// Create handles POST /portfolio/transactions
// @Summary Record a transaction
// @Description Applies a buy or sell to the ticker's position
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body models.TransactionRequest true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	txn, _, err := h.ledgerSvc.RecordTransaction(c.Request.Context(), &req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// Delete handles DELETE /portfolio/transactions/:id
// @Summary Delete a transaction
// @Description Deletes the transaction and rebuilds its position from the remaining history
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "invalid transaction ID",
		})
		return
	}

	if _, err := h.ledgerSvc.DeleteTransaction(c.Request.Context(), id); err != nil {
		writeLedgerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Rebuild handles POST /portfolio/positions/:ticker/rebuild
// @Summary Rebuild a position
// @Description Replays the ticker's full transaction history
// @Tags transactions
// @Produce json
// @Param ticker path string true "Ticker"
// @Success 200 {object} models.Position
// @Success 204 "position removed, no transactions left"
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/positions/{ticker}/rebuild [post]
func (h *TransactionHandler) Rebuild(c *gin.Context) {
	pos, err := h.ledgerSvc.RebuildPosition(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	if pos == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, pos)
}

// UpdateNotes handles PATCH /portfolio/holdings/:ticker
// @Summary Set position notes
// @Description Replaces the notes of a stored position; null or blank clears them
// @Tags transactions
// @Accept json
// @Produce json
// @Param ticker path string true "Ticker"
// @Param request body models.PositionNotesRequest true "Notes"
// @Success 200 {object} models.Position
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolio/holdings/{ticker} [patch]
func (h *TransactionHandler) UpdateNotes(c *gin.Context) {
	var req models.PositionNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	pos, err := h.ledgerSvc.UpdatePositionNotes(c.Request.Context(), c.Param("ticker"), req.Notes)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, pos)
}

// writeLedgerError maps ledger service errors to HTTP responses
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTransaction), errors.Is(err, services.ErrInvalidStock):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrStockNotFound), errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrPositionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInconsistentHistory), errors.Is(err, services.ErrStockExists),
		errors.Is(err, services.ErrStockInUse):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case ledger.IsBusinessRule(err):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "unprocessable",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
