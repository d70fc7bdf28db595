package reports

import (
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
)

// BuildIncomeStatement renders income, cost, and expense sections from
// period movements and closes with the period result. Income is shown
// credit-natural, costs and expenses debit-natural, so the result is
// income minus costs minus expenses.
func BuildIncomeStatement(balances []AccountBalance) []Row {
	roots := buildTree(balances)
	var rows []Row

	income := appendSection(&rows, roots, accounts.AccountTypeIncome, "Ingresos", "Total ingresos")
	cost := appendSection(&rows, roots, accounts.AccountTypeCost, "Costos", "Total costos")
	expense := appendSection(&rows, roots, accounts.AccountTypeExpense, "Gastos", "Total gastos")

	rows = append(rows, Row{
		Name:  "Resultado del ejercicio",
		Kind:  RowTotal,
		Value: income.Sub(cost).Sub(expense),
	})
	return rows
}

// appendSection emits a header, the matching subtrees, and a section
// total, returning the section's net value.
func appendSection(rows *[]Row, roots []*node, accountType accounts.AccountType, title, totalTitle string) decimal.Decimal {
	var section []*node
	for _, root := range roots {
		if root.balance.Type == accountType && !root.zero() {
			section = append(section, root)
		}
	}
	total := decimal.Zero
	for _, n := range section {
		total = total.Add(n.net())
	}
	if len(section) == 0 {
		return total
	}
	*rows = append(*rows, Row{Name: title, Kind: RowHeader})
	for _, n := range section {
		*rows = appendValueRows(*rows, n)
	}
	*rows = append(*rows, Row{Name: totalTitle, Kind: RowTotal, Value: total})
	return total
}

// appendValueRows emits a subtree with levels taken from the account
// code's segment depth, so both statements and the trial balance agree.
func appendValueRows(rows []Row, n *node) []Row {
	if n.zero() {
		return rows
	}
	kind := RowAccount
	if len(n.children) > 0 {
		kind = RowHeader
	}
	rows = append(rows, Row{
		Code:  n.balance.Code,
		Name:  n.balance.Name,
		Level: accounts.Depth(n.balance.Code),
		Kind:  kind,
		Value: n.net(),
	})
	for _, child := range n.children {
		rows = appendValueRows(rows, child)
	}
	return rows
}
