package parsers

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const (
	minYear = 1990
	maxYear = 2100
)

// dateLayouts are tried in order. Day-first layouts come before year-first ones;
// month-first US dates are only reached when the day-first reading is impossible.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2/1/06",
	"2-1-06",
	"2006/1/2",
	"2.1.2006",
	"2.1.06",
	"2006.1.2",
	"1/2/2006",
}

// ParseDate parses a trade date, accepting the first layout that yields a year
// between 1990 and 2100. A trailing clock part ("15/01/2024 10:32:00") is ignored.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if fields := strings.Fields(value); len(fields) > 1 {
		value = fields[0]
	}
	if i := strings.IndexByte(value, 'T'); i > 0 {
		value = value[:i]
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if t.Year() >= minYear && t.Year() <= maxYear {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
