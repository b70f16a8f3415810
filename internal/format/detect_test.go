package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(t *testing.T, m Mapping, r Role) int {
	t.Helper()
	idx, ok := m.Column(r)
	require.True(t, ok, "role %s not resolved", r)
	return idx
}

func TestDetect_B3AreaInvestidor(t *testing.T) {
	headers := []string{"Código Negociação", "Tipo Movimentação", "Quantidade", "Preço", "Data do Negócio"}

	det, err := NewDetector().Detect(headers)
	require.NoError(t, err)

	assert.Equal(t, "b3_area_investidor", det.Format)
	assert.Equal(t, 5, det.Score)
	assert.Equal(t, 0, column(t, det.Mapping, RoleTicker))
	assert.Equal(t, 1, column(t, det.Mapping, RoleOperation))
	assert.Equal(t, 2, column(t, det.Mapping, RoleQuantity))
	assert.Equal(t, 3, column(t, det.Mapping, RolePrice))
	assert.Equal(t, 4, column(t, det.Mapping, RoleDate))
	assert.False(t, det.Mapping.Has(RoleFees))
}

func TestDetect_EnglishHeaders(t *testing.T) {
	det, err := NewDetector().Detect([]string{"ticker", "type", "qty", "price", "date"})
	require.NoError(t, err)

	assert.Equal(t, "generic", det.Format)
	assert.Equal(t, 1, column(t, det.Mapping, RoleOperation))
	assert.Equal(t, 2, column(t, det.Mapping, RoleQuantity))
}

func TestDetect_TemplateHeaderPicksGenericWithOptionalRoles(t *testing.T) {
	det, err := NewDetector().Detect([]string{"date", "ticker", "operation", "quantity", "price", "fees", "notes"})
	require.NoError(t, err)

	assert.Equal(t, "generic", det.Format)
	assert.Equal(t, 7, det.Score)
	assert.Equal(t, 0, column(t, det.Mapping, RoleDate))
	assert.Equal(t, 5, column(t, det.Mapping, RoleFees))
	assert.Equal(t, 6, column(t, det.Mapping, RoleNotes))
	assert.Equal(t, "ticker=1, operation=2, quantity=3, price=4, date=0, fees=5, notes=6", det.Mapping.String())
}

func TestDetect_HigherScoreWins(t *testing.T) {
	// Every format resolves the required roles; only generic also finds notes.
	headers := []string{"ativo", "tipo", "quantidade", "preco", "data", "taxas", "observacoes"}
	det, err := NewDetector().Detect(headers)
	require.NoError(t, err)
	assert.Equal(t, "generic", det.Format)
	assert.Equal(t, 7, det.Score)
}

func TestDetect_TiePrefersFirstDeclared(t *testing.T) {
	headers := []string{"ativo", "tipo", "quantidade", "preco", "data"}
	det, err := NewDetector().Detect(headers)
	require.NoError(t, err)
	assert.Equal(t, "b3_area_investidor", det.Format)
}

func TestDetect_Unmappable(t *testing.T) {
	_, err := NewDetector().Detect([]string{"ticker", "price", "date"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnmappableColumns)
	assert.Contains(t, err.Error(), "operation")
	assert.Contains(t, err.Error(), "quantity")
	assert.NotContains(t, err.Error(), "missing ticker")
}

func TestDetect_BlankHeadersIgnored(t *testing.T) {
	det, err := NewDetector().Detect([]string{"", "ticker", "type", "qty", "price", "date"})
	require.NoError(t, err)
	assert.Equal(t, 1, column(t, det.Mapping, RoleTicker))
}

func TestDetect_CustomFormat(t *testing.T) {
	custom, err := NewFormat("broker_x",
		RoleSynonyms{RoleTicker, []string{"instrumento"}},
		RoleSynonyms{RoleOperation, []string{"lado"}},
		RoleSynonyms{RoleQuantity, []string{"volume"}},
		RoleSynonyms{RolePrice, []string{"cotacao"}},
		RoleSynonyms{RoleDate, []string{"pregao"}},
	)
	require.NoError(t, err)

	det, err := NewDetector(custom).Detect([]string{"Pregão", "Instrumento", "Lado", "Volume", "Cotação"})
	require.NoError(t, err)
	assert.Equal(t, "broker_x", det.Format)
	assert.Equal(t, 1, column(t, det.Mapping, RoleTicker))
}

func TestNewFormat_RejectsBadTables(t *testing.T) {
	_, err := NewFormat("bad", RoleSynonyms{Role(42), []string{"x"}})
	assert.Error(t, err)

	_, err = NewFormat("incomplete", RoleSynonyms{RoleTicker, []string{"ticker"}})
	assert.Error(t, err)
}

func TestResolveColumn(t *testing.T) {
	headers := []string{"data do negocio", "preco"}
	assert.Equal(t, 0, ResolveColumn(headers, []string{"data"}))
	// reverse containment: header is a substring of the synonym
	assert.Equal(t, 1, ResolveColumn(headers, []string{"preco/ajuste"}))
	assert.Equal(t, -1, ResolveColumn(headers, []string{"quantidade"}))
}

func TestMappingValue(t *testing.T) {
	m := NewMapping()
	m.Set(RoleTicker, 0)
	m.Set(RoleNotes, 5)
	rec := []string{" WEGE3 ", "x"}
	assert.Equal(t, "WEGE3", m.Value(rec, RoleTicker))
	assert.Equal(t, "", m.Value(rec, RoleNotes))
	assert.Equal(t, "", m.Value(rec, RolePrice))
}
