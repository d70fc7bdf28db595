package reports

import (
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
)

// BuildTrialBalance renders the account hierarchy with summed period
// movements. Parent accounts appear as headers carrying their subtree
// totals, accounts with no movement are omitted, and a grand total row
// closes the report. For a consistent ledger the total debit and credit
// columns are equal.
func BuildTrialBalance(balances []AccountBalance) []Row {
	roots := buildTree(balances)
	var rows []Row
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, root := range roots {
		rows = appendTrialRows(rows, root)
		totalDebit = totalDebit.Add(root.debit)
		totalCredit = totalCredit.Add(root.credit)
	}
	rows = append(rows, Row{
		Name:   "Total",
		Kind:   RowTotal,
		Debit:  totalDebit,
		Credit: totalCredit,
	})
	return rows
}

func appendTrialRows(rows []Row, n *node) []Row {
	if n.zero() {
		return rows
	}
	kind := RowAccount
	if len(n.children) > 0 {
		kind = RowHeader
	}
	rows = append(rows, Row{
		Code:   n.balance.Code,
		Name:   n.balance.Name,
		Level:  accounts.Depth(n.balance.Code),
		Kind:   kind,
		Debit:  n.debit,
		Credit: n.credit,
	})
	for _, child := range n.children {
		rows = appendTrialRows(rows, child)
	}
	return rows
}
