package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/epeers/stocktracker/internal/models"
)

var ErrUnknownOperation = errors.New("unknown operation")

// operationSynonyms lists normalized spellings per side. Buy is checked first.
var operationSynonyms = []struct {
	kind     models.OperationKind
	keywords []string
}{
	{models.OperationBuy, []string{"c", "compra", "buy", "b", "aquisicao", "entrada", "credito", "+"}},
	{models.OperationSell, []string{"v", "venda", "sell", "s", "alienacao", "saida", "debito", "-"}},
}

// ParseOperationKind maps a free-form operation label to buy or sell. An exact
// keyword match is tried first; otherwise a keyword matches when either string
// contains the other and the first match wins. The exact pass keeps single
// letters such as "s" from being swallowed by a longer buy keyword.
func ParseOperationKind(raw string) (models.OperationKind, error) {
	normalized := Normalize(raw)
	if normalized == "" {
		return "", fmt.Errorf("%w: empty value", ErrUnknownOperation)
	}
	for _, side := range operationSynonyms {
		for _, kw := range side.keywords {
			if normalized == kw {
				return side.kind, nil
			}
		}
	}
	for _, side := range operationSynonyms {
		for _, kw := range side.keywords {
			if strings.Contains(normalized, kw) || strings.Contains(kw, normalized) {
				return side.kind, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, raw)
}
