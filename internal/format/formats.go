package format

import (
	"fmt"

	"github.com/epeers/stocktracker/internal/parsers"
)

// Format is a named synonym table: for each role, the header labels that may
// carry it, most specific first. Labels are stored normalized.
type Format struct {
	Name     string
	synonyms [numRoles][]string
}

// RoleSynonyms pairs a role with its candidate header labels.
type RoleSynonyms struct {
	Role   Role
	Labels []string
}

// NewFormat builds a format, normalizing every label. Unknown roles and
// tables missing a required role are rejected here rather than at lookup time.
func NewFormat(name string, table ...RoleSynonyms) (Format, error) {
	f := Format{Name: name}
	for _, rs := range table {
		if !rs.Role.valid() {
			return Format{}, fmt.Errorf("format %s: unknown role %d", name, int(rs.Role))
		}
		for _, label := range rs.Labels {
			if n := parsers.Normalize(label); n != "" {
				f.synonyms[rs.Role] = append(f.synonyms[rs.Role], n)
			}
		}
	}
	for _, r := range RequiredRoles {
		if len(f.synonyms[r]) == 0 {
			return Format{}, fmt.Errorf("format %s: no synonyms for required role %s", name, r)
		}
	}
	return f, nil
}

// MustFormat is NewFormat for package-level tables.
func MustFormat(name string, table ...RoleSynonyms) Format {
	f, err := NewFormat(name, table...)
	if err != nil {
		panic(err)
	}
	return f
}

// Synonyms returns the normalized labels for a role.
func (f Format) Synonyms(r Role) []string {
	if !r.valid() {
		return nil
	}
	return f.synonyms[r]
}

// Known formats, in priority order for tie breaking.
var (
	B3AreaInvestidor = MustFormat("b3_area_investidor",
		RoleSynonyms{RoleTicker, []string{"código negociação", "codigo negociacao", "ticker", "código", "codigo", "ativo", "papel"}},
		RoleSynonyms{RoleOperation, []string{"tipo movimentação", "tipo movimentacao", "movimentação", "movimentacao", "tipo", "c/v", "operação", "operacao"}},
		RoleSynonyms{RoleQuantity, []string{"quantidade", "qtd", "qtde", "qt"}},
		RoleSynonyms{RolePrice, []string{"preço", "preco", "preço unitário", "preco unitario", "valor unitário", "valor unitario", "preço/ajuste", "preco/ajuste"}},
		RoleSynonyms{RoleDate, []string{"data", "data do negócio", "data do negocio", "data negócio", "data negocio", "data pregão", "data pregao", "data liquidação", "data liquidacao"}},
		RoleSynonyms{RoleFees, []string{"taxas", "taxa", "corretagem", "emolumentos", "custos"}},
	)

	// Brokerage notes (Clear, XP, Rico) converted to spreadsheets share one layout.
	BrokerageNote = MustFormat("corretora",
		RoleSynonyms{RoleTicker, []string{"especificação do título", "especificacao do titulo", "título", "titulo", "papel", "ativo", "código", "codigo"}},
		RoleSynonyms{RoleOperation, []string{"c/v", "compra/venda", "tipo", "natureza", "operação", "operacao"}},
		RoleSynonyms{RoleQuantity, []string{"quantidade", "qtd", "qtde", "qt", "q"}},
		RoleSynonyms{RolePrice, []string{"preço/ajuste", "preco/ajuste", "preço", "preco", "valor"}},
		RoleSynonyms{RoleDate, []string{"data pregão", "data pregao", "data", "dt pregão", "dt pregao"}},
		RoleSynonyms{RoleFees, []string{"taxa operacional", "corretagem", "emolumentos", "taxas"}},
	)

	Generic = MustFormat("generic",
		RoleSynonyms{RoleTicker, []string{"ticker", "ativo", "papel", "código", "codigo", "symbol", "stock", "acao", "ação"}},
		RoleSynonyms{RoleOperation, []string{"tipo", "type", "operação", "operacao", "c/v", "compra/venda", "operation", "side"}},
		RoleSynonyms{RoleQuantity, []string{"quantidade", "qtd", "qtde", "quantity", "qty", "qt", "q"}},
		RoleSynonyms{RolePrice, []string{"preço", "preco", "price", "valor", "value", "preço unitário", "preco unitario"}},
		RoleSynonyms{RoleDate, []string{"data", "date", "data operação", "data operacao", "dt"}},
		RoleSynonyms{RoleFees, []string{"taxas", "taxa", "fees", "fee", "corretagem", "custos"}},
		RoleSynonyms{RoleNotes, []string{"observações", "observacoes", "notas", "notes", "obs"}},
	)
)

// DefaultFormats returns the built-in formats in priority order.
func DefaultFormats() []Format {
	return []Format{B3AreaInvestidor, BrokerageNote, Generic}
}
