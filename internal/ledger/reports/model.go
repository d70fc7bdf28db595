package reports

import (
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
)

// RowKind tags how a report row should be rendered.
type RowKind string

const (
	RowHeader  RowKind = "HEADER"
	RowAccount RowKind = "ACCOUNT"
	RowTotal   RowKind = "TOTAL"
)

// Row is one line of a financial report. Trial balances fill Debit and
// Credit; statements fill Value.
type Row struct {
	Code   string          `json:"code,omitempty"`
	Name   string          `json:"name"`
	Level  int             `json:"level"`
	Kind   RowKind         `json:"kind"`
	Debit  decimal.Decimal `json:"debit,omitempty"`
	Credit decimal.Decimal `json:"credit,omitempty"`
	Value  decimal.Decimal `json:"value,omitempty"`
}

// AccountBalance is the summed movement of one account over a period.
type AccountBalance struct {
	AccountID int64
	Code      string
	Name      string
	Type      accounts.AccountType
	ParentID  *int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// node aggregates an account's own movement with its subtree.
type node struct {
	balance  AccountBalance
	debit    decimal.Decimal
	credit   decimal.Decimal
	children []*node
}

func (n *node) zero() bool {
	return n.debit.IsZero() && n.credit.IsZero()
}

// net returns the natural-side balance of the subtree: debit minus
// credit for assets, costs, and expenses, credit minus debit otherwise.
func (n *node) net() decimal.Decimal {
	switch n.balance.Type {
	case accounts.AccountTypeAsset, accounts.AccountTypeCost, accounts.AccountTypeExpense:
		return n.debit.Sub(n.credit)
	}
	return n.credit.Sub(n.debit)
}

// buildTree arranges balances into the account hierarchy and rolls
// movements up into each ancestor. Balances must be sorted by code so
// children follow their parents.
func buildTree(balances []AccountBalance) []*node {
	byID := make(map[int64]*node, len(balances))
	var roots []*node
	for _, b := range balances {
		n := &node{balance: b, debit: b.Debit, credit: b.Credit}
		byID[b.AccountID] = n
		if b.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[*b.ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.children = append(parent.children, n)
	}
	for _, b := range balances {
		for p := b.ParentID; p != nil; {
			parent, ok := byID[*p]
			if !ok {
				break
			}
			parent.debit = parent.debit.Add(b.Debit)
			parent.credit = parent.credit.Add(b.Credit)
			p = parent.balance.ParentID
		}
	}
	return roots
}
