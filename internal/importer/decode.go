package importer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeContent turns an uploaded file into text. A UTF-8 byte order mark is
// dropped; anything that is not valid UTF-8 is read as Windows-1252, the
// encoding spreadsheet exports fall back to.
func DecodeContent(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		// unreachable: Windows-1252 maps every byte
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(decoded)
}

// candidateDelimiters in tie-break order.
var candidateDelimiters = []rune{',', ';', '\t'}

// SniffDelimiter counts each candidate delimiter across the first five lines
// and returns the most frequent. Ties go to the earlier candidate, so a file
// with no delimiters at all is read as comma-separated.
func SniffDelimiter(content string) rune {
	lines := strings.SplitN(content, "\n", 6)
	if len(lines) > 5 {
		lines = lines[:5]
	}
	sample := strings.Join(lines, "\n")

	best, bestCount := candidateDelimiters[0], -1
	for _, d := range candidateDelimiters {
		if n := strings.Count(sample, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
