package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidTicker = errors.New("invalid ticker")

	tickerExact  = regexp.MustCompile(`^[A-Z]{4}\d{1,2}$`)
	tickerInside = regexp.MustCompile(`[A-Z]{4}\d{1,2}`)
)

// ParseTicker returns the canonical form of a B3 ticker: four letters followed
// by one or two digits. Exchange annotations after whitespace ("PETR4 ON NM")
// and the fractional-lot suffix ("WEGE3F") are dropped.
func ParseTicker(raw string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidTicker)
	}

	if fields := strings.Fields(value); len(fields) > 1 {
		value = fields[0]
	}

	if len(value) > 5 && strings.HasSuffix(value, "F") {
		value = value[:len(value)-1]
	}

	if tickerExact.MatchString(value) {
		return value, nil
	}
	if m := tickerInside.FindString(value); m != "" {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
}
