package reports

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func TestRenderReportHTML(t *testing.T) {
	rows := []Row{
		{Code: "1", Name: "Activo", Level: 0, Kind: RowHeader},
		{Code: "1.1.02.00001", Name: "Clientes nacionales", Level: 3, Kind: RowAccount, Debit: decimal.RequireFromString("1160")},
		{Name: "Total", Kind: RowTotal, Debit: decimal.RequireFromString("1160"), Credit: decimal.RequireFromString("1160")},
	}

	html, err := RenderReportHTML("Balance de comprobación", rows, language.LatinAmericanSpanish)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"<h1>Balance de comprobación</h1>",
		`class="header"`,
		`class="total"`,
		"Clientes nacionales",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected html to contain %q, got: %s", want, html)
		}
	}
	if !strings.Contains(html, "1160") && !strings.Contains(html, "1.160") && !strings.Contains(html, "1,160") {
		t.Fatalf("expected formatted amount in html: %s", html)
	}
}
