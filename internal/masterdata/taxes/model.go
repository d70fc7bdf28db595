package taxes

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// Tax represents a VAT-style tax configuration. FiscalDebit is the
// account receiving tax collected on sales, FiscalCredit the account for
// tax paid on purchases.
type Tax struct {
	ID                    int64           `json:"id"`
	CompanyID             int64           `json:"company_id"`
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	Rate                  decimal.Decimal `json:"rate"`
	FiscalDebitAccountID  *int64          `json:"fiscal_debit_account_id"`
	FiscalCreditAccountID *int64          `json:"fiscal_credit_account_id"`
	IsActive              bool            `json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// RetentionConfig holds the company's withholding and default trading accounts.
type RetentionConfig struct {
	CompanyID         int64  `json:"company_id"`
	IVAAccountID      *int64 `json:"retention_iva_account_id"`
	ISLRAccountID     *int64 `json:"retention_islr_account_id"`
	SalesAccountID    *int64 `json:"sales_account_id"`
	PurchaseAccountID *int64 `json:"purchase_account_id"`
}

// PostingAccounts returns the fiscal debit and credit accounts, failing
// closed when either is unset.
func (t Tax) PostingAccounts() (fiscalDebit, fiscalCredit int64, err error) {
	if t.FiscalDebitAccountID == nil || t.FiscalCreditAccountID == nil {
		return 0, 0, shared.ErrMissingTaxConfig
	}
	return *t.FiscalDebitAccountID, *t.FiscalCreditAccountID, nil
}

// RetentionAccount resolves the withholding account for the given type.
func (c RetentionConfig) RetentionAccount(withholdingType string) (int64, error) {
	switch withholdingType {
	case "RETENCION_IVA":
		if c.IVAAccountID == nil {
			return 0, shared.ErrMissingTaxConfig
		}
		return *c.IVAAccountID, nil
	case "RETENCION_ISLR":
		if c.ISLRAccountID == nil {
			return 0, shared.ErrMissingTaxConfig
		}
		return *c.ISLRAccountID, nil
	}
	return 0, shared.ErrMissingTaxConfig
}

// SalesAccount resolves the default income account, failing closed.
func (c RetentionConfig) SalesAccount() (int64, error) {
	if c.SalesAccountID == nil {
		return 0, shared.ErrMissingTaxConfig
	}
	return *c.SalesAccountID, nil
}

// PurchaseAccount resolves the default expense account, failing closed.
func (c RetentionConfig) PurchaseAccount() (int64, error) {
	if c.PurchaseAccountID == nil {
		return 0, shared.ErrMissingTaxConfig
	}
	return *c.PurchaseAccountID, nil
}
