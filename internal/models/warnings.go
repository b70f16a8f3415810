package models

// WarningCode categorizes warnings by subsystem.
// W2xxx = pricing, W3xxx = valuation.
type WarningCode string

const (
	WarnQuoteUnavailable WarningCode = "W2001" // no quote could be fetched; market fields left empty
	WarnQuotesDisabled   WarningCode = "W2002" // no quote provider configured
	WarnZeroCostBasis    WarningCode = "W3001" // open position with zero average cost, gain % undefined
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
