package reports

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// WriteCSV streams report rows as CSV with amounts formatted for the
// given locale.
func WriteCSV(w io.Writer, rows []Row, tag language.Tag) error {
	printer := message.NewPrinter(tag)
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"code", "name", "kind", "debit", "credit", "value"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Code,
			indent(row.Level) + row.Name,
			string(row.Kind),
			amount(printer, row.Debit),
			amount(printer, row.Credit),
			amount(printer, row.Value),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func amount(p *message.Printer, d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	f, _ := d.Float64()
	return p.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func indent(level int) string {
	out := ""
	for i := 0; i < level; i++ {
		out += "  "
	}
	return out
}
