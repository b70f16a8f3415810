package models

// ImportOutcome is the per-run result of a file import. It is built fresh for
// every call and never persisted.
type ImportOutcome struct {
	SuccessCount   int      `json:"success_count"`
	ErrorCount     int      `json:"error_count"`
	SkippedCount   int      `json:"skipped_count"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	CreatedTickers []string `json:"created_stocks"`
}

// NewImportOutcome returns an outcome with non-nil slices so it always
// serializes as arrays.
func NewImportOutcome() *ImportOutcome {
	return &ImportOutcome{
		Errors:         []string{},
		Warnings:       []string{},
		CreatedTickers: []string{},
	}
}
