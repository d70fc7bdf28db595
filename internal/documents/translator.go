package documents

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/journals"
)

// PostingAccounts collects the resolved ledger accounts a document
// posting can touch. Callers fill only the fields the document type
// needs; the translators never read the rest.
type PostingAccounts struct {
	Receivable   int64
	Payable      int64
	Sales        int64
	Purchases    int64
	FiscalDebit  int64
	FiscalCredit int64
	Bank         int64
	Retention    int64
}

// TradeLines derives balanced journal lines for invoices, bills, and
// notes. A sale moves receivables against income and fiscal debit; a
// purchase moves expenses and fiscal credit against payables. Credit
// notes produce the mirror of the document they amend, debit notes the
// same direction.
func TradeLines(doc Document, sale bool, acc PostingAccounts) []journals.PostingLineInput {
	reverse := doc.Type == TypeCreditNote
	var lines []journals.PostingLineInput
	if sale {
		lines = append(lines, line(acc.Receivable, doc.Total, decimal.Zero))
		lines = append(lines, line(acc.Sales, decimal.Zero, doc.Subtotal))
		if doc.TaxAmount.IsPositive() {
			lines = append(lines, line(acc.FiscalDebit, decimal.Zero, doc.TaxAmount))
		}
	} else {
		lines = append(lines, line(acc.Purchases, doc.Subtotal, decimal.Zero))
		if doc.TaxAmount.IsPositive() {
			lines = append(lines, line(acc.FiscalCredit, doc.TaxAmount, decimal.Zero))
		}
		lines = append(lines, line(acc.Payable, decimal.Zero, doc.Total))
	}
	if reverse {
		for i := range lines {
			lines[i].Debit, lines[i].Credit = lines[i].Credit, lines[i].Debit
		}
	}
	return lines
}

// SettlementLines derives lines for receipts and payments. Receipts
// move money into the bank against receivables; payments the opposite
// way against payables.
func SettlementLines(doc Document, acc PostingAccounts) []journals.PostingLineInput {
	if doc.Type == TypeReceipt {
		return []journals.PostingLineInput{
			line(acc.Bank, doc.Total, decimal.Zero),
			line(acc.Receivable, decimal.Zero, doc.Total),
		}
	}
	return []journals.PostingLineInput{
		line(acc.Payable, doc.Total, decimal.Zero),
		line(acc.Bank, decimal.Zero, doc.Total),
	}
}

// WithholdingLines derives lines for a retention certificate. On the
// sales side the client keeps part of what they owe, so the retention
// asset grows against receivables. On the purchase side the company
// keeps part of what it owes the supplier.
func WithholdingLines(w Withholding, sale bool, acc PostingAccounts) []journals.PostingLineInput {
	if sale {
		return []journals.PostingLineInput{
			line(acc.Retention, w.Amount, decimal.Zero),
			line(acc.Receivable, decimal.Zero, w.Amount),
		}
	}
	return []journals.PostingLineInput{
		line(acc.Payable, w.Amount, decimal.Zero),
		line(acc.Retention, decimal.Zero, w.Amount),
	}
}

// WithholdingAmount computes the retained amount from base and rate,
// rounded to cents.
func WithholdingAmount(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// EntryMemo builds the statement description for a document entry.
// Notes carry a reference to the document they amend.
func EntryMemo(doc Document, related *Document) string {
	memo := fmt.Sprintf("%s %s", typeLabel(doc.Type), doc.Number)
	if related != nil {
		memo = fmt.Sprintf("%s (Factura afectada: %s)", memo, related.Number)
	}
	return memo
}

// WithholdingMemo builds the statement description for a retention
// certificate entry.
func WithholdingMemo(w Withholding, target Document) string {
	return fmt.Sprintf("%s s/%s %s", typeLabel(DocumentType(w.Type)), typeLabel(target.Type), target.Number)
}

func typeLabel(t DocumentType) string {
	switch t {
	case TypeInvoice:
		return "Factura"
	case TypeBill:
		return "Factura de compra"
	case TypeCreditNote:
		return "Nota de crédito"
	case TypeDebitNote:
		return "Nota de débito"
	case TypeReceipt:
		return "Cobro"
	case TypePayment:
		return "Pago"
	case DocumentType(RetentionIVA):
		return "Retención IVA"
	case DocumentType(RetentionISLR):
		return "Retención ISLR"
	}
	return string(t)
}

func line(accountID int64, debit, credit decimal.Decimal) journals.PostingLineInput {
	return journals.PostingLineInput{AccountID: accountID, Debit: debit, Credit: credit}
}
