package reports

import (
	"bytes"
	"context"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PDFRenderer converts an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; margin: 32px; }
h1 { font-size: 18px; margin-bottom: 16px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 4px 8px; text-align: left; border-bottom: 1px solid #ddd; }
td.amount { text-align: right; font-variant-numeric: tabular-nums; }
tr.header td { font-weight: bold; }
tr.total td { font-weight: bold; border-top: 2px solid #333; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><th>Código</th><th>Cuenta</th><th>Debe</th><th>Haber</th><th>Saldo</th></tr>
{{range .Rows}}<tr class="{{.Class}}"><td>{{.Code}}</td><td style="padding-left: {{.Indent}}px">{{.Name}}</td><td class="amount">{{.Debit}}</td><td class="amount">{{.Credit}}</td><td class="amount">{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>`))

type pdfRow struct {
	Class  string
	Code   string
	Name   string
	Indent int
	Debit  string
	Credit string
	Value  string
}

// RenderReportHTML builds the printable HTML document for a report.
func RenderReportHTML(title string, rows []Row, tag language.Tag) (string, error) {
	printer := message.NewPrinter(tag)
	view := struct {
		Title string
		Rows  []pdfRow
	}{Title: title}
	for _, row := range rows {
		class := "account"
		switch row.Kind {
		case RowHeader:
			class = "header"
		case RowTotal:
			class = "total"
		}
		view.Rows = append(view.Rows, pdfRow{
			Class:  class,
			Code:   row.Code,
			Name:   row.Name,
			Indent: 8 + row.Level*12,
			Debit:  amount(printer, row.Debit),
			Credit: amount(printer, row.Credit),
			Value:  amount(printer, row.Value),
		})
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
