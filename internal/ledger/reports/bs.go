package reports

import (
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
)

// BuildBalanceSheet renders assets against liabilities and equity from
// cumulative movements through the cutoff date. The period result, the
// net of all income, cost, and expense movements, is folded into equity
// so both sides agree. A control row closes the report with the
// difference between the two sides, zero for a consistent ledger.
func BuildBalanceSheet(balances []AccountBalance) []Row {
	roots := buildTree(balances)
	var rows []Row

	assets := appendSection(&rows, roots, accounts.AccountTypeAsset, "Activo", "Total activo")
	liabilities := appendSection(&rows, roots, accounts.AccountTypeLiability, "Pasivo", "Total pasivo")

	equity := decimal.Zero
	var equityNodes []*node
	for _, root := range roots {
		if root.balance.Type == accounts.AccountTypeEquity && !root.zero() {
			equityNodes = append(equityNodes, root)
			equity = equity.Add(root.net())
		}
	}
	result := periodResult(roots)

	rows = append(rows, Row{Name: "Patrimonio", Kind: RowHeader})
	for _, n := range equityNodes {
		rows = appendValueRows(rows, n)
	}
	if !result.IsZero() {
		rows = append(rows, Row{Name: "Resultado del ejercicio", Level: 1, Kind: RowAccount, Value: result})
	}
	equity = equity.Add(result)
	rows = append(rows, Row{Name: "Total patrimonio", Kind: RowTotal, Value: equity})

	rows = append(rows, Row{Name: "Total pasivo y patrimonio", Kind: RowTotal, Value: liabilities.Add(equity)})
	rows = append(rows, Row{Name: "Control", Kind: RowTotal, Value: assets.Sub(liabilities.Add(equity))})
	return rows
}

// periodResult nets every income, cost, and expense movement, which a
// cumulative query has not yet closed into equity.
func periodResult(roots []*node) decimal.Decimal {
	result := decimal.Zero
	for _, root := range roots {
		switch root.balance.Type {
		case accounts.AccountTypeIncome:
			result = result.Add(root.net())
		case accounts.AccountTypeCost, accounts.AccountTypeExpense:
			result = result.Sub(root.net())
		}
	}
	return result
}
