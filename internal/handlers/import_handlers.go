package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/epeers/stocktracker/internal/importer"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	maxResponseErrors   = 20
	maxResponseWarnings = 10
)

var errFileTooLarge = errors.New("file too large")

// ImportHandler handles file uploads into the ledger
type ImportHandler struct {
	ledgerSvc *services.LedgerService
	maxBytes  int64
}

// NewImportHandler creates a new ImportHandler. Uploads above maxBytes are rejected.
func NewImportHandler(ledgerSvc *services.LedgerService, maxBytes int64) *ImportHandler {
	return &ImportHandler{
		ledgerSvc: ledgerSvc,
		maxBytes:  maxBytes,
	}
}

// Import handles POST /portfolio/import
// @Summary Import transactions from a CSV file
// @Description Detects the file layout (B3 export, Portuguese or English headers), then applies every valid row.
// @Description Rows are applied in one database transaction; row errors are reported and skipped.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file (.csv or .txt)"
// @Param skip_duplicates query bool false "Skip rows repeating an earlier row of the same file (default true)"
// @Param create_missing_stocks query bool false "Register unknown tickers (default true)"
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 422 {object} models.ImportResponse
// @Failure 500 {object} models.ImportResponse
// @Router /portfolio/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	raw, err := h.readUpload(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	opts := importer.Options{
		SkipDuplicates:      boolOr(req.SkipDuplicates, true),
		CreateMissingStocks: boolOr(req.CreateMissingStocks, true),
	}
	outcome, err := h.ledgerSvc.Import(c.Request.Context(), raw, opts)
	resp := capOutcome(outcome)
	if err != nil {
		if importer.IsInputError(err) {
			c.JSON(http.StatusUnprocessableEntity, resp)
			return
		}
		log.Errorf("import failed: %v", err)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Template handles GET /portfolio/import/template
// @Summary Download the import template
// @Tags import
// @Produce text/csv
// @Success 200 {string} string "CSV template"
// @Router /portfolio/import/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.TemplateFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(importer.Template()))
}

// readUpload returns the bytes of the "file" form field
func (h *ImportHandler) readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv", ".txt":
	default:
		return nil, fmt.Errorf("unsupported file type %q: upload a .csv or .txt file", fh.Filename)
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", errFileTooLarge, fh.Size, h.maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return raw, nil
}

// capOutcome trims the message lists of an outcome for the response body
func capOutcome(outcome *models.ImportOutcome) models.ImportResponse {
	if outcome == nil {
		outcome = models.NewImportOutcome()
	}
	resp := models.ImportResponse{
		ImportOutcome: *outcome,
		TotalErrors:   len(outcome.Errors),
		TotalWarnings: len(outcome.Warnings),
	}
	if len(resp.Errors) > maxResponseErrors {
		resp.Errors = resp.Errors[:maxResponseErrors]
	}
	if len(resp.Warnings) > maxResponseWarnings {
		resp.Warnings = resp.Warnings[:maxResponseWarnings]
	}
	return resp
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
