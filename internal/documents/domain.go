package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType enumerates commercial document kinds. Invoices and debit
// notes sit on the sales side, bills on the purchase side; credit and
// debit notes inherit their side from the document they amend.
type DocumentType string

const (
	TypeInvoice    DocumentType = "INVOICE"
	TypeBill       DocumentType = "BILL"
	TypeCreditNote DocumentType = "CREDIT_NOTE"
	TypeDebitNote  DocumentType = "DEBIT_NOTE"
	TypeReceipt    DocumentType = "RECEIPT"
	TypePayment    DocumentType = "PAYMENT"
)

// DocumentStatus tracks settlement of the open balance.
type DocumentStatus string

const (
	StatusPending DocumentStatus = "PENDING"
	StatusPartial DocumentStatus = "PARTIAL"
	StatusPaid    DocumentStatus = "PAID"
	StatusVoid    DocumentStatus = "VOID"
)

// WithholdingType enumerates Venezuelan retention kinds.
type WithholdingType string

const (
	RetentionIVA  WithholdingType = "RETENCION_IVA"
	RetentionISLR WithholdingType = "RETENCION_ISLR"
)

// paidEpsilon absorbs rounding residue when deciding whether a document
// is settled.
var paidEpsilon = decimal.NewFromFloat(0.01)

// Document is a commercial document and the source of truth for its
// journal entry. Balance starts at Total and is reduced by allocations
// and withholdings applied against it.
type Document struct {
	ID                uuid.UUID       `json:"id"`
	CompanyID         int64           `json:"company_id"`
	Type              DocumentType    `json:"type"`
	Number            string          `json:"number"`
	Date              time.Time       `json:"date"`
	ThirdPartyID      int64           `json:"third_party_id"`
	RelatedDocumentID *uuid.UUID      `json:"related_document_id,omitempty"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	Total             decimal.Decimal `json:"total"`
	Balance           decimal.Decimal `json:"balance"`
	Status            DocumentStatus  `json:"status"`
	JournalEntryID    *int64          `json:"journal_entry_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Items             []DocumentItem  `json:"items,omitempty"`
}

// DocumentItem is one priced line of a document.
type DocumentItem struct {
	ID          int64           `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Withholding is a retention certificate applied against a document.
type Withholding struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	DocumentID     uuid.UUID       `json:"document_id"`
	ThirdPartyID   int64           `json:"third_party_id"`
	Type           WithholdingType `json:"type"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Rate           decimal.Decimal `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
	JournalEntryID *int64          `json:"journal_entry_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PaymentAllocation applies part of a receipt or payment against an
// open document.
type PaymentAllocation struct {
	ID         int64           `json:"id"`
	ReceiptID  uuid.UUID       `json:"receipt_id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Settleable reports whether the document carries an open balance that
// allocations and withholdings can reduce.
func (t DocumentType) Settleable() bool {
	switch t {
	case TypeInvoice, TypeBill, TypeCreditNote, TypeDebitNote:
		return true
	}
	return false
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeInvoice, TypeBill, TypeCreditNote, TypeDebitNote, TypeReceipt, TypePayment:
		return true
	}
	return false
}

// StatusFor recomputes settlement status from the open balance. A
// residue below one cent counts as fully paid.
func StatusFor(balance, total decimal.Decimal) DocumentStatus {
	if balance.LessThanOrEqual(paidEpsilon) {
		return StatusPaid
	}
	if balance.LessThan(total) {
		return StatusPartial
	}
	return StatusPending
}
