package importer

import "strings"

// TemplateFilename is the suggested download name for Template.
const TemplateFilename = "transactions_template.csv"

var templateRows = [][]string{
	{"date", "ticker", "operation", "quantity", "price", "fees", "notes"},
	{"2024-01-15", "WEGE3", "buy", "100", "35.50", "0", "First purchase"},
	{"2024-02-20", "PETR4", "buy", "200", "28.75", "4.90", ""},
	{"2024-03-10", "WEGE3", "sell", "50", "38.00", "0", "Partial sale"},
	{"2024-04-05", "ITUB4", "buy", "150", "22.30", "0", ""},
}

// Template returns a sample file in the generic format. It imports cleanly
// into an empty ledger.
func Template() string {
	var b strings.Builder
	for _, row := range templateRows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
