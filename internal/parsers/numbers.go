package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
)

// MoneyPlaces is the number of fractional digits kept for prices and fees.
const MoneyPlaces = 2

var currencyStripper = strings.NewReplacer(
	"R$", "", "US$", "", "$", "", "€", "", "£", "",
	" ", "", "\t", "", "\u00a0", "",
)

var quantityStripper = strings.NewReplacer(".", "", ",", "", " ", "", "\u00a0", "", "+", "", "-", "")

// ParseQuantity parses a share count. Thousands separators and sign characters
// are removed, fractions are truncated, and zero is rejected.
func ParseQuantity(raw string) (int64, error) {
	value := quantityStripper.Replace(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidQuantity)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	qty := d.Abs().IntPart()
	if qty == 0 {
		return 0, fmt.Errorf("%w: %q is zero", ErrInvalidQuantity, raw)
	}
	return qty, nil
}

// ParsePrice parses a positive unit price in either Brazilian ("1.234,56") or
// US ("1,234.56") notation. When both separators appear, the one occurring
// last is the decimal point. A lone comma is a decimal point.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not positive", ErrInvalidPrice, raw)
	}
	return d, nil
}

// ParseFee parses an optional fee. Empty, unparsable or non-positive input
// yields zero; fees never fail a row.
func ParseFee(raw string) decimal.Decimal {
	d, err := parseAmount(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value := currencyStripper.Replace(strings.TrimSpace(raw))
	if value == "" {
		return decimal.Zero, errors.New("empty value")
	}

	lastComma := strings.LastIndex(value, ",")
	lastDot := strings.LastIndex(value, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			value = strings.ReplaceAll(value, ".", "")
			value = strings.Replace(value, ",", ".", 1)
		} else {
			value = strings.ReplaceAll(value, ",", "")
		}
	case lastComma >= 0:
		value = strings.Replace(value, ",", ".", 1)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(MoneyPlaces), nil
}
