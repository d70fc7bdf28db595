package reports

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func i64(v int64) *int64 { return &v }

// testBalances models a single posted invoice: receivable 1160 against
// sales 1000 and fiscal debit 160. The expense root has no movement.
func testBalances() []AccountBalance {
	return []AccountBalance{
		{AccountID: 1, Code: "1", Name: "Activo", Type: accounts.AccountTypeAsset},
		{AccountID: 2, Code: "1.1.01.00001", Name: "Cuentas por cobrar", Type: accounts.AccountTypeAsset, ParentID: i64(1), Debit: dec("1160")},
		{AccountID: 3, Code: "2", Name: "Pasivo", Type: accounts.AccountTypeLiability},
		{AccountID: 4, Code: "2.1.01.00001", Name: "IVA débito fiscal", Type: accounts.AccountTypeLiability, ParentID: i64(3), Credit: dec("160")},
		{AccountID: 5, Code: "3", Name: "Patrimonio", Type: accounts.AccountTypeEquity},
		{AccountID: 6, Code: "4", Name: "Ingresos", Type: accounts.AccountTypeIncome},
		{AccountID: 7, Code: "4.1.01.00001", Name: "Ventas", Type: accounts.AccountTypeIncome, ParentID: i64(6), Credit: dec("1000")},
		{AccountID: 8, Code: "5", Name: "Gastos", Type: accounts.AccountTypeExpense},
	}
}

func findRow(t *testing.T, rows []Row, name string) Row {
	t.Helper()
	for _, row := range rows {
		if row.Name == name {
			return row
		}
	}
	t.Fatalf("no row named %q", name)
	return Row{}
}

func TestTrialBalanceRollsUpAndBalances(t *testing.T) {
	rows := BuildTrialBalance(testBalances())

	total := rows[len(rows)-1]
	if total.Kind != RowTotal {
		t.Fatalf("last row kind = %s, want TOTAL", total.Kind)
	}
	if !total.Debit.Equal(total.Credit) {
		t.Fatalf("total debit %s != credit %s", total.Debit, total.Credit)
	}
	if !total.Debit.Equal(dec("1160")) {
		t.Fatalf("total debit = %s, want 1160", total.Debit)
	}

	activo := findRow(t, rows, "Activo")
	if activo.Kind != RowHeader || !activo.Debit.Equal(dec("1160")) {
		t.Fatalf("parent row not rolled up: %+v", activo)
	}
	if activo.Level != 1 {
		t.Fatalf("root level = %d, want 1", activo.Level)
	}
	leaf := findRow(t, rows, "Cuentas por cobrar")
	if leaf.Kind != RowAccount || leaf.Level != 4 {
		t.Fatalf("leaf row = %+v", leaf)
	}
}

func TestReportLevelsFollowCodeDepth(t *testing.T) {
	tb := BuildTrialBalance(testBalances())
	pl := BuildIncomeStatement(testBalances())

	if row := findRow(t, tb, "Cuentas por cobrar"); row.Level != 4 {
		t.Fatalf("trial balance leaf level = %d, want 4", row.Level)
	}
	if row := findRow(t, pl, "Ventas"); row.Level != 4 {
		t.Fatalf("income statement leaf level = %d, want 4", row.Level)
	}
}

func TestTrialBalanceOmitsZeroRows(t *testing.T) {
	rows := BuildTrialBalance(testBalances())
	for _, row := range rows {
		if row.Code == "5" || row.Code == "3" {
			t.Fatalf("zero-movement row %q should be omitted", row.Code)
		}
	}
}

func TestIncomeStatementResult(t *testing.T) {
	rows := BuildIncomeStatement(testBalances())

	result := rows[len(rows)-1]
	if result.Name != "Resultado del ejercicio" || !result.Value.Equal(dec("1000")) {
		t.Fatalf("result row = %+v, want 1000", result)
	}
	income := findRow(t, rows, "Total ingresos")
	if !income.Value.Equal(dec("1000")) {
		t.Fatalf("income total = %s, want 1000", income.Value)
	}
	for _, row := range rows {
		if row.Name == "Gastos" || row.Name == "Total gastos" {
			t.Fatalf("empty expense section should be omitted")
		}
	}
}

func TestBalanceSheetFoldsResultIntoEquity(t *testing.T) {
	rows := BuildBalanceSheet(testBalances())

	assets := findRow(t, rows, "Total activo")
	if !assets.Value.Equal(dec("1160")) {
		t.Fatalf("assets = %s, want 1160", assets.Value)
	}
	result := findRow(t, rows, "Resultado del ejercicio")
	if !result.Value.Equal(dec("1000")) {
		t.Fatalf("period result = %s, want 1000", result.Value)
	}
	side := findRow(t, rows, "Total pasivo y patrimonio")
	if !side.Value.Equal(dec("1160")) {
		t.Fatalf("liabilities+equity = %s, want 1160", side.Value)
	}
	control := findRow(t, rows, "Control")
	if !control.Value.IsZero() {
		t.Fatalf("control = %s, want 0", control.Value)
	}
}

func TestBalanceSheetUnbalancedLedgerShowsControl(t *testing.T) {
	balances := testBalances()
	// drop the sales credit so the ledger no longer balances
	balances[6].Credit = dec("900")
	rows := BuildBalanceSheet(balances)

	control := findRow(t, rows, "Control")
	if !control.Value.Equal(dec("100")) {
		t.Fatalf("control = %s, want 100", control.Value)
	}
}
