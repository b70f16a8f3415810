package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/epeers/stocktracker/internal/parsers"
)

var ErrUnmappableColumns = errors.New("could not identify the required columns")

// Detection is the winning format and its resolved column mapping
type Detection struct {
	Format  string
	Mapping Mapping
	Score   int
}

// Detector scores a header row against a fixed list of formats.
type Detector struct {
	formats []Format
}

// NewDetector creates a Detector. With no formats it uses DefaultFormats.
func NewDetector(formats ...Format) *Detector {
	if len(formats) == 0 {
		formats = DefaultFormats()
	}
	return &Detector{formats: formats}
}

// Detect picks the format resolving the most roles among those that resolve
// every required role. Ties go to the format declared first. When no format
// qualifies, the error names the required roles left unresolved by the
// closest candidate.
func (d *Detector) Detect(headers []string) (*Detection, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = parsers.Normalize(h)
	}

	var best *Detection
	var closest []Role
	for _, f := range d.formats {
		mapping := f.Resolve(normalized)
		missing := mapping.Missing()
		if len(missing) > 0 {
			if closest == nil || len(missing) < len(closest) {
				closest = missing
			}
			continue
		}
		if best == nil || mapping.Len() > best.Score {
			best = &Detection{Format: f.Name, Mapping: mapping, Score: mapping.Len()}
		}
	}

	if best == nil {
		if closest == nil {
			closest = RequiredRoles
		}
		names := make([]string, len(closest))
		for i, r := range closest {
			names[i] = r.String()
		}
		return nil, fmt.Errorf("%w: missing %s (the file must contain ticker, operation (buy/sell), quantity, price and date columns)",
			ErrUnmappableColumns, strings.Join(names, ", "))
	}
	return best, nil
}

// Resolve maps every role of f against already-normalized headers.
func (f Format) Resolve(normalizedHeaders []string) Mapping {
	m := NewMapping()
	for _, r := range AllRoles() {
		if idx := ResolveColumn(normalizedHeaders, f.synonyms[r]); idx >= 0 {
			m.Set(r, idx)
		}
	}
	return m
}

// ResolveColumn returns the first header index matching any synonym, trying
// synonyms in order. A header matches when either string contains the other.
// Blank headers never match. Returns -1 when nothing matches.
func ResolveColumn(normalizedHeaders []string, synonyms []string) int {
	for _, syn := range synonyms {
		for i, h := range normalizedHeaders {
			if h == "" {
				continue
			}
			if strings.Contains(h, syn) || strings.Contains(syn, h) {
				return i
			}
		}
	}
	return -1
}
