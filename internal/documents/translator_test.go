package documents

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/journals"
)

var testAccounts = PostingAccounts{
	Receivable:   10,
	Payable:      13,
	Sales:        11,
	Purchases:    14,
	FiscalDebit:  12,
	FiscalCredit: 15,
	Bank:         16,
	Retention:    17,
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tradeDoc(t DocumentType) Document {
	return Document{
		Type:      t,
		Number:    "FAC-001",
		Subtotal:  dec("1000"),
		TaxAmount: dec("160"),
		Total:     dec("1160"),
	}
}

func assertBalanced(t *testing.T, lines []journals.PostingLineInput) {
	t.Helper()
	debit, credit := decimal.Zero, decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		t.Fatalf("lines unbalanced: debit %s credit %s", debit, credit)
	}
}

func findLine(t *testing.T, lines []journals.PostingLineInput, accountID int64) journals.PostingLineInput {
	t.Helper()
	for _, line := range lines {
		if line.AccountID == accountID {
			return line
		}
	}
	t.Fatalf("no line for account %d", accountID)
	return journals.PostingLineInput{}
}

func TestTradeLinesInvoice(t *testing.T) {
	lines := TradeLines(tradeDoc(TypeInvoice), true, testAccounts)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Receivable); !got.Debit.Equal(dec("1160")) {
		t.Fatalf("receivable debit = %s, want 1160", got.Debit)
	}
	if got := findLine(t, lines, testAccounts.Sales); !got.Credit.Equal(dec("1000")) {
		t.Fatalf("sales credit = %s, want 1000", got.Credit)
	}
	if got := findLine(t, lines, testAccounts.FiscalDebit); !got.Credit.Equal(dec("160")) {
		t.Fatalf("fiscal debit credit = %s, want 160", got.Credit)
	}
}

func TestTradeLinesBill(t *testing.T) {
	lines := TradeLines(tradeDoc(TypeBill), false, testAccounts)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Purchases); !got.Debit.Equal(dec("1000")) {
		t.Fatalf("purchases debit = %s, want 1000", got.Debit)
	}
	if got := findLine(t, lines, testAccounts.FiscalCredit); !got.Debit.Equal(dec("160")) {
		t.Fatalf("fiscal credit debit = %s, want 160", got.Debit)
	}
	if got := findLine(t, lines, testAccounts.Payable); !got.Credit.Equal(dec("1160")) {
		t.Fatalf("payable credit = %s, want 1160", got.Credit)
	}
}

func TestTradeLinesCreditNoteMirrorsSale(t *testing.T) {
	lines := TradeLines(tradeDoc(TypeCreditNote), true, testAccounts)
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Receivable); !got.Credit.Equal(dec("1160")) {
		t.Fatalf("receivable credit = %s, want 1160", got.Credit)
	}
	if got := findLine(t, lines, testAccounts.Sales); !got.Debit.Equal(dec("1000")) {
		t.Fatalf("sales debit = %s, want 1000", got.Debit)
	}
}

func TestTradeLinesDebitNoteSameDirection(t *testing.T) {
	lines := TradeLines(tradeDoc(TypeDebitNote), false, testAccounts)
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Payable); !got.Credit.Equal(dec("1160")) {
		t.Fatalf("payable credit = %s, want 1160", got.Credit)
	}
}

func TestTradeLinesZeroTaxOmitsFiscalLine(t *testing.T) {
	doc := tradeDoc(TypeInvoice)
	doc.TaxAmount = decimal.Zero
	doc.Total = doc.Subtotal
	lines := TradeLines(doc, true, testAccounts)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	assertBalanced(t, lines)
}

func TestSettlementLines(t *testing.T) {
	receipt := Document{Type: TypeReceipt, Total: dec("500")}
	lines := SettlementLines(receipt, testAccounts)
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Bank); !got.Debit.Equal(dec("500")) {
		t.Fatalf("bank debit = %s, want 500", got.Debit)
	}
	if got := findLine(t, lines, testAccounts.Receivable); !got.Credit.Equal(dec("500")) {
		t.Fatalf("receivable credit = %s, want 500", got.Credit)
	}

	payment := Document{Type: TypePayment, Total: dec("500")}
	lines = SettlementLines(payment, testAccounts)
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Payable); !got.Debit.Equal(dec("500")) {
		t.Fatalf("payable debit = %s, want 500", got.Debit)
	}
}

func TestWithholdingLines(t *testing.T) {
	w := Withholding{Type: RetentionISLR, Amount: dec("30")}
	lines := WithholdingLines(w, true, testAccounts)
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Retention); !got.Debit.Equal(dec("30")) {
		t.Fatalf("retention debit = %s, want 30", got.Debit)
	}
	if got := findLine(t, lines, testAccounts.Receivable); !got.Credit.Equal(dec("30")) {
		t.Fatalf("receivable credit = %s, want 30", got.Credit)
	}

	lines = WithholdingLines(w, false, testAccounts)
	assertBalanced(t, lines)
	if got := findLine(t, lines, testAccounts.Payable); !got.Debit.Equal(dec("30")) {
		t.Fatalf("payable debit = %s, want 30", got.Debit)
	}
}

func TestWithholdingAmount(t *testing.T) {
	if got := WithholdingAmount(dec("1000"), dec("3")); !got.Equal(dec("30")) {
		t.Fatalf("amount = %s, want 30", got)
	}
	if got := WithholdingAmount(dec("333.33"), dec("16")); !got.Equal(dec("53.33")) {
		t.Fatalf("amount = %s, want 53.33", got)
	}
}

func TestEntryMemoCarriesAffectedInvoice(t *testing.T) {
	related := tradeDoc(TypeInvoice)
	note := Document{Type: TypeCreditNote, Number: "NC-001"}
	memo := EntryMemo(note, &related)
	want := "Nota de crédito NC-001 (Factura afectada: FAC-001)"
	if memo != want {
		t.Fatalf("memo = %q, want %q", memo, want)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		balance, total string
		want           DocumentStatus
	}{
		{"1160", "1160", StatusPending},
		{"660", "1160", StatusPartial},
		{"0", "1160", StatusPaid},
		{"0.01", "1160", StatusPaid},
		{"0.02", "1160", StatusPartial},
	}
	for _, tc := range cases {
		if got := StatusFor(dec(tc.balance), dec(tc.total)); got != tc.want {
			t.Fatalf("StatusFor(%s, %s) = %s, want %s", tc.balance, tc.total, got, tc.want)
		}
	}
}
