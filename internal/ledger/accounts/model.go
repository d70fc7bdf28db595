package accounts

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeCost      AccountType = "COST"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeOther     AccountType = "OTHER"
)

// Valid reports whether the type is a known CoA category.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeIncome, AccountTypeCost, AccountTypeExpense, AccountTypeOther:
		return true
	}
	return false
}

// Account models a chart of accounts node.
type Account struct {
	ID        int64
	CompanyID int64
	Code      string
	Name      string
	Type      AccountType
	ParentID  *int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput groups fields required to register an account.
type CreateInput struct {
	CompanyID int64
	Code      string
	Name      string
	Type      AccountType
}
