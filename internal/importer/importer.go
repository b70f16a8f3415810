// Package importer turns a brokerage export into ledger transactions. A run
// detects the file layout, parses every row, then applies the valid rows to
// the ledger inside one store transaction.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/epeers/stocktracker/internal/format"
	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/epeers/stocktracker/internal/parsers"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmptyFile         = errors.New("file is empty or has no data rows")
	ErrUnmappableColumns = format.ErrUnmappableColumns
	ErrUnknownStock      = errors.New("stock not found")
	ErrUnreadableFile    = errors.New("unreadable file")
)

// DefaultNote is attached to imported transactions whose row has no notes.
const DefaultNote = "Imported from CSV"

// Options control one import run.
type Options struct {
	// SkipDuplicates drops rows whose ticker, operation, quantity, price and
	// date repeat an earlier row of the same file.
	SkipDuplicates bool
	// CreateMissingStocks registers unknown tickers with a placeholder name
	// instead of rejecting their rows.
	CreateMissingStocks bool
	// DryRun runs every check and rolls back instead of committing.
	DryRun bool
}

// RowError is a row-scoped failure. It never stops the run.
type RowError struct {
	Row    int
	Ticker string
	Err    error
}

func (e *RowError) Error() string {
	if e.Ticker != "" {
		return fmt.Sprintf("Row %d (%s): %v", e.Row, e.Ticker, e.Err)
	}
	return fmt.Sprintf("Row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// parsedRow is the result of parsing one data row: either a transaction
// ready to apply or a row error.
type parsedRow struct {
	row int
	txn models.Transaction
	err *RowError
}

// Importer runs file imports against a ledger store.
type Importer struct {
	store     ledger.Store
	processor ledger.Processor
	locks     *ledger.TickerLocks
	detector  *format.Detector
}

// NewImporter creates an Importer. locks is shared with every other writer
// of the same store; detector may be nil to use the default formats.
func NewImporter(store ledger.Store, processor ledger.Processor, locks *ledger.TickerLocks, detector *format.Detector) *Importer {
	if detector == nil {
		detector = format.NewDetector()
	}
	if locks == nil {
		locks = ledger.NewTickerLocks()
	}
	return &Importer{store: store, processor: processor, locks: locks, detector: detector}
}

// Detect reports the layout of a file without importing it.
func (im *Importer) Detect(raw []byte) (*format.Detection, error) {
	records, _, err := readRecords(DecodeContent(raw))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return im.detector.Detect(records[0].fields)
}

// Import parses raw and applies every valid row. The outcome is always
// returned. The error is non-nil for fatal input problems (ErrEmptyFile,
// ErrUnmappableColumns) and for store failures; in both cases nothing is
// persisted and the outcome reports zero successes.
func (im *Importer) Import(ctx context.Context, raw []byte, opts Options) (*models.ImportOutcome, error) {
	outcome := models.NewImportOutcome()

	records, readErrs, err := readRecords(DecodeContent(raw))
	if err != nil {
		return fatal(outcome, err)
	}
	if len(records) < 2 {
		return fatal(outcome, ErrEmptyFile)
	}

	detection, err := im.detector.Detect(records[0].fields)
	if err != nil {
		return fatal(outcome, err)
	}
	outcome.Warnings = append(outcome.Warnings,
		"Detected format: "+detection.Format,
		"Mapped columns: "+detection.Mapping.String(),
	)
	log.Debugf("import: format %s, mapping %s", detection.Format, detection.Mapping)

	rows := make([]parsedRow, 0, len(records)-1)
	rows = append(rows, readErrs...)
	for _, rec := range records[1:] {
		if isBlank(rec.fields) {
			continue
		}
		rows = append(rows, parseRow(rec, detection.Mapping))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].row < rows[j].row })

	unlock := im.locks.Lock(tickers(rows)...)
	defer unlock()

	if err := im.apply(ctx, rows, opts, outcome); err != nil {
		log.Errorf("import rolled back: %v", err)
		outcome.SuccessCount = 0
		outcome.CreatedTickers = []string{}
		outcome.Errors = append(outcome.Errors, "Fatal error processing file: "+err.Error())
		return outcome, err
	}

	if len(outcome.CreatedTickers) > 0 {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
			"Stocks created automatically: %s. Consider updating their names.",
			strings.Join(outcome.CreatedTickers, ", ")))
	}
	log.Infof("import: %d applied, %d errors, %d skipped, %d stocks created",
		outcome.SuccessCount, outcome.ErrorCount, outcome.SkippedCount, len(outcome.CreatedTickers))
	return outcome, nil
}

// apply runs the parsed rows through the ledger in file order inside one
// store transaction. Row-scoped problems are recorded on the outcome; any
// other error aborts and rolls back the whole file.
func (im *Importer) apply(ctx context.Context, rows []parsedRow, opts Options, outcome *models.ImportOutcome) error {
	tx, err := im.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, ticker := range tickers(rows) {
		if err := tx.LockTicker(ctx, ticker); err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	for _, r := range rows {
		if r.err != nil {
			rowError(outcome, r.err)
			continue
		}
		t := r.txn

		if opts.SkipDuplicates {
			key := duplicateKey(t)
			if seen[key] {
				outcome.SkippedCount++
				outcome.Warnings = append(outcome.Warnings,
					fmt.Sprintf("Row %d: duplicate transaction skipped (%s)", r.row, t.Ticker))
				continue
			}
			seen[key] = true
		}

		stock, err := tx.GetStock(ctx, t.Ticker)
		if err != nil {
			return err
		}
		if stock == nil {
			if !opts.CreateMissingStocks {
				rowError(outcome, &RowError{Row: r.row, Ticker: t.Ticker, Err: ErrUnknownStock})
				continue
			}
			stock = &models.Stock{Ticker: t.Ticker, Name: models.PlaceholderStockName(t.Ticker), IsActive: true}
			if err := tx.CreateStock(ctx, stock); err != nil {
				return err
			}
			outcome.CreatedTickers = append(outcome.CreatedTickers, t.Ticker)
		}

		if _, err := im.processor.Record(ctx, tx, &t); err != nil {
			if ledger.IsBusinessRule(err) {
				rowError(outcome, &RowError{Row: r.row, Ticker: t.Ticker, Err: err})
				continue
			}
			return err
		}
		outcome.SuccessCount++
		log.Debugf("import: row %d %s %d %s @ %s", r.row, t.Kind, t.Quantity, t.Ticker, t.Price)
	}

	if opts.DryRun {
		return tx.Rollback(ctx)
	}
	return tx.Commit(ctx)
}

type record struct {
	line   int
	fields []string
}

// readRecords tokenizes content with the sniffed delimiter. Each record keeps
// the file line it starts on. Lines the tokenizer rejects come back as row
// errors instead of failing the file.
func readRecords(content string) ([]record, []parsedRow, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = SniffDelimiter(content)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records []record
	var rowErrs []parsedRow
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			if len(records) == 0 {
				return nil, nil, fmt.Errorf("%w: header: %v", ErrUnreadableFile, err)
			}
			rowErrs = append(rowErrs, parsedRow{row: perr.StartLine, err: &RowError{Row: perr.StartLine, Err: perr.Err}})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
	return records, rowErrs, nil
}

// parseRow runs the field parsers over one record. The first failing field
// decides the row error.
func parseRow(rec record, m format.Mapping) parsedRow {
	fail := func(ticker string, err error) parsedRow {
		return parsedRow{row: rec.line, err: &RowError{Row: rec.line, Ticker: ticker, Err: err}}
	}

	ticker, err := parsers.ParseTicker(m.Value(rec.fields, format.RoleTicker))
	if err != nil {
		return fail("", err)
	}
	kind, err := parsers.ParseOperationKind(m.Value(rec.fields, format.RoleOperation))
	if err != nil {
		return fail(ticker, err)
	}
	qty, err := parsers.ParseQuantity(m.Value(rec.fields, format.RoleQuantity))
	if err != nil {
		return fail(ticker, err)
	}
	price, err := parsers.ParsePrice(m.Value(rec.fields, format.RolePrice))
	if err != nil {
		return fail(ticker, err)
	}
	date, err := parsers.ParseDate(m.Value(rec.fields, format.RoleDate))
	if err != nil {
		return fail(ticker, err)
	}

	t := models.Transaction{
		Ticker:   ticker,
		Kind:     kind,
		Quantity: qty,
		Price:    price,
		Date:     date,
		Fees:     parsers.ParseFee(m.Value(rec.fields, format.RoleFees)),
	}
	note := DefaultNote
	if n := m.Value(rec.fields, format.RoleNotes); n != "" {
		note = n
	}
	t.Notes = &note
	return parsedRow{row: rec.line, txn: t}
}

// IsInputError reports whether err from Import is a problem with the file
// itself rather than a store failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrUnmappableColumns) ||
		errors.Is(err, ErrUnreadableFile)
}

func rowError(outcome *models.ImportOutcome, e *RowError) {
	outcome.ErrorCount++
	outcome.Errors = append(outcome.Errors, e.Error())
}

func fatal(outcome *models.ImportOutcome, err error) (*models.ImportOutcome, error) {
	outcome.Errors = append(outcome.Errors, fatalMessage(err))
	return outcome, err
}

func fatalMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyFile):
		return "Empty file or no data rows"
	case errors.Is(err, ErrUnmappableColumns):
		return err.Error()
	case errors.Is(err, ErrUnreadableFile):
		return "Could not read file: " + err.Error()
	default:
		return err.Error()
	}
}

func duplicateKey(t models.Transaction) string {
	return strings.Join([]string{
		t.Ticker,
		string(t.Kind),
		fmt.Sprint(t.Quantity),
		t.Price.StringFixed(parsers.MoneyPlaces),
		t.Date.Format(models.DateLayout),
	}, "|")
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// tickers returns the distinct tickers of the parsed rows in sorted order.
func tickers(rows []parsedRow) []string {
	set := make(map[string]bool)
	for _, r := range rows {
		if r.err == nil {
			set[r.txn.Ticker] = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
