package documents

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// ItemInput describes one priced line of a document request.
type ItemInput struct {
	ProductID   *int64          `json:"product_id"`
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInput covers invoices, bills, and both note kinds. Notes must
// name the document they amend.
type CreateInput struct {
	CompanyID         int64        `json:"company_id" validate:"required"`
	Type              DocumentType `json:"type" validate:"required,oneof=INVOICE BILL CREDIT_NOTE DEBIT_NOTE"`
	Number            string       `json:"number" validate:"required"`
	Date              time.Time    `json:"date" validate:"required"`
	ThirdPartyID      int64        `json:"third_party_id" validate:"required"`
	RelatedDocumentID *uuid.UUID   `json:"related_document_id"`
	Items             []ItemInput  `json:"items" validate:"required,min=1,dive"`
}

// AllocationInput applies part of a receipt against an open document.
type AllocationInput struct {
	DocumentID uuid.UUID       `json:"document_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// ReceiptInput creates a receipt or payment with optional allocations.
type ReceiptInput struct {
	CompanyID     int64             `json:"company_id" validate:"required"`
	Type          DocumentType      `json:"type" validate:"required,oneof=RECEIPT PAYMENT"`
	Number        string            `json:"number" validate:"required"`
	Date          time.Time         `json:"date" validate:"required"`
	ThirdPartyID  int64             `json:"third_party_id" validate:"required"`
	BankAccountID int64             `json:"bank_account_id" validate:"required"`
	Amount        decimal.Decimal   `json:"amount"`
	Allocations   []AllocationInput `json:"allocations" validate:"dive"`
}

// WithholdingInput records a retention certificate against a document.
type WithholdingInput struct {
	CompanyID  int64           `json:"company_id" validate:"required"`
	DocumentID uuid.UUID       `json:"document_id" validate:"required"`
	Date       time.Time       `json:"date" validate:"required"`
	Type       WithholdingType `json:"type" validate:"required,oneof=RETENCION_IVA RETENCION_ISLR"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Rate       decimal.Decimal `json:"rate"`
}

// Validate checks structural and monetary constraints of the request.
func (in CreateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if (in.Type == TypeCreditNote || in.Type == TypeDebitNote) && in.RelatedDocumentID == nil {
		return errors.New("documents: note requires related document")
	}
	for idx, item := range in.Items {
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("documents: item %d quantity must be positive", idx)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("documents: item %d unit price cannot be negative", idx)
		}
	}
	return nil
}

// Validate checks the receipt request, including that allocations do
// not exceed the received amount.
func (in ReceiptInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if !in.Amount.IsPositive() {
		return errors.New("documents: amount must be positive")
	}
	allocated := decimal.Zero
	for idx, alloc := range in.Allocations {
		if !alloc.Amount.IsPositive() {
			return fmt.Errorf("documents: allocation %d amount must be positive", idx)
		}
		allocated = allocated.Add(alloc.Amount)
	}
	if allocated.GreaterThan(in.Amount) {
		return errors.New("documents: allocations exceed received amount")
	}
	return nil
}

// Validate checks the withholding request.
func (in WithholdingInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if !in.BaseAmount.IsPositive() {
		return errors.New("documents: base amount must be positive")
	}
	if !in.Rate.IsPositive() {
		return errors.New("documents: rate must be positive")
	}
	return nil
}
