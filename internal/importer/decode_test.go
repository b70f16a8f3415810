package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    rune
	}{
		{"comma", "a,b,c\n1,2,3", ','},
		{"semicolon", "a;b;c\n1;2,5;3", ';'},
		{"tab", "a\tb\tc\n1\t2\t3", '\t'},
		{"tie prefers comma", "a,b;c", ','},
		{"no delimiter", "abc", ','},
		{"only first five lines count", "a;b\n1;2\n1;2\n1;2\n1;2\n1,2,3,4,5,6,7,8,9,10,11,12", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffDelimiter(tt.content))
		})
	}
}

func TestDecodeContent(t *testing.T) {
	assert.Equal(t, "ação", DecodeContent([]byte("ação")))
	assert.Equal(t, "data", DecodeContent([]byte("\xEF\xBB\xBFdata")))
	// "Preço" in Windows-1252
	assert.Equal(t, "Preço", DecodeContent([]byte{'P', 'r', 'e', 0xE7, 'o'}))
	assert.Equal(t, "", DecodeContent(nil))
}
