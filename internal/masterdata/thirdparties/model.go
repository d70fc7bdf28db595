package thirdparties

import (
	"time"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// Kind enumerates the commercial roles of a third party.
type Kind string

const (
	KindClient   Kind = "CLIENT"
	KindSupplier Kind = "SUPPLIER"
	KindBoth     Kind = "BOTH"
)

// ThirdParty is a client or supplier with its control accounts.
type ThirdParty struct {
	ID                  int64     `json:"id"`
	CompanyID           int64     `json:"company_id"`
	Name                string    `json:"name"`
	TaxID               string    `json:"tax_id"`
	Kind                Kind      `json:"kind"`
	ReceivableAccountID *int64    `json:"receivable_account_id"`
	PayableAccountID    *int64    `json:"payable_account_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsClient reports whether the third party can appear on sales documents.
func (t ThirdParty) IsClient() bool {
	return t.Kind == KindClient || t.Kind == KindBoth
}

// IsSupplier reports whether the third party can appear on purchase documents.
func (t ThirdParty) IsSupplier() bool {
	return t.Kind == KindSupplier || t.Kind == KindBoth
}

// ReceivableAccount resolves the receivable control account, failing
// closed when unset.
func (t ThirdParty) ReceivableAccount() (int64, error) {
	if t.ReceivableAccountID == nil {
		return 0, shared.ErrMissingTaxConfig
	}
	return *t.ReceivableAccountID, nil
}

// PayableAccount resolves the payable control account, failing closed
// when unset.
func (t ThirdParty) PayableAccount() (int64, error) {
	if t.PayableAccountID == nil {
		return 0, shared.ErrMissingTaxConfig
	}
	return *t.PayableAccountID, nil
}
