package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/journals"
	"github.com/andino-erp/andino-erp/internal/ledger/shared"
	"github.com/andino-erp/andino-erp/internal/masterdata/taxes"
	"github.com/andino-erp/andino-erp/internal/masterdata/thirdparties"
)

// TaxPort resolves tax and retention configuration.
type TaxPort interface {
	GetActive(ctx context.Context, companyID int64) (taxes.Tax, error)
	RetentionConfig(ctx context.Context, companyID int64) (taxes.RetentionConfig, error)
}

// ThirdPartyPort resolves clients and suppliers.
type ThirdPartyPort interface {
	Get(ctx context.Context, id int64) (thirdparties.ThirdParty, error)
}

// Service turns commercial documents into balanced journal entries. Every
// flow runs in a single transaction: the document, its journal entry,
// settlement effects, and stock movements commit or roll back together.
type Service struct {
	repo    Repository
	taxes   TaxPort
	parties ThirdPartyPort
}

// NewService constructs the document posting service.
func NewService(repo Repository, taxPort TaxPort, partyPort ThirdPartyPort) *Service {
	return &Service{repo: repo, taxes: taxPort, parties: partyPort}
}

// Get retrieves one document with its items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves the company's documents, optionally filtered by type.
func (s *Service) List(ctx context.Context, companyID int64, docType DocumentType) ([]Document, error) {
	if docType != "" && !docType.Valid() {
		return nil, errors.New("documents: unknown document type")
	}
	return s.repo.List(ctx, companyID, docType)
}

// ListWithholdings retrieves the company's retention certificates.
func (s *Service) ListWithholdings(ctx context.Context, companyID int64) ([]Withholding, error) {
	return s.repo.ListWithholdings(ctx, companyID)
}

// Create posts an invoice, bill, or note together with its journal
// entry and stock movements.
func (s *Service) Create(ctx context.Context, input CreateInput) (Document, error) {
	if err := input.Validate(); err != nil {
		return Document{}, err
	}

	var related *Document
	if input.RelatedDocumentID != nil {
		found, err := s.repo.Get(ctx, *input.RelatedDocumentID)
		if err != nil {
			return Document{}, err
		}
		if found.CompanyID != input.CompanyID {
			return Document{}, shared.ErrDocumentNotFound
		}
		related = &found
	}
	sale, err := saleSide(input.Type, related)
	if err != nil {
		return Document{}, err
	}

	party, err := s.parties.Get(ctx, input.ThirdPartyID)
	if err != nil {
		return Document{}, err
	}
	if party.CompanyID != input.CompanyID {
		return Document{}, shared.ErrThirdPartyNotFound
	}
	if sale && !party.IsClient() || !sale && !party.IsSupplier() {
		return Document{}, shared.ErrWrongThirdPartyRole
	}

	tax, err := s.taxes.GetActive(ctx, input.CompanyID)
	if err != nil {
		return Document{}, err
	}
	retention, err := s.taxes.RetentionConfig(ctx, input.CompanyID)
	if err != nil {
		return Document{}, err
	}
	acc, err := tradeAccounts(sale, party, tax, retention)
	if err != nil {
		return Document{}, err
	}

	items, subtotal, taxAmount, total := computeTotals(input.Items, tax.Rate)
	doc := Document{
		ID:                uuid.New(),
		CompanyID:         input.CompanyID,
		Type:              input.Type,
		Number:            input.Number,
		Date:              input.Date,
		ThirdPartyID:      input.ThirdPartyID,
		RelatedDocumentID: input.RelatedDocumentID,
		Subtotal:          subtotal,
		TaxAmount:         taxAmount,
		Total:             total,
		Balance:           total,
		Status:            StatusPending,
	}

	posting := journals.PostingInput{
		CompanyID: input.CompanyID,
		Date:      input.Date,
		Memo:      EntryMemo(doc, related),
		Lines:     TradeLines(doc, sale, acc),
	}
	if err := posting.Validate(); err != nil {
		return Document{}, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertDocument(ctx, doc)
		if err != nil {
			return err
		}
		doc = inserted
		if err := tx.InsertItems(ctx, doc.ID, items); err != nil {
			return err
		}
		if err := ensurePostable(ctx, tx, input.CompanyID, posting.Lines); err != nil {
			return err
		}
		entry, err := tx.InsertJournalEntry(ctx, posting)
		if err != nil {
			return err
		}
		if err := tx.InsertJournalLines(ctx, entry.ID, posting.Lines); err != nil {
			return err
		}
		if err := tx.SetJournalEntry(ctx, doc.ID, entry.ID); err != nil {
			return err
		}
		doc.JournalEntryID = &entry.ID
		return adjustStock(ctx, tx, doc.Type, sale, items)
	})
	if err != nil {
		return Document{}, err
	}
	doc.Items = items
	return doc, nil
}

// CreateReceipt posts a receipt or payment and applies its allocations
// against open documents, locking each one so concurrent settlements
// serialize on the balance.
func (s *Service) CreateReceipt(ctx context.Context, input ReceiptInput) (Document, error) {
	if err := input.Validate(); err != nil {
		return Document{}, err
	}

	party, err := s.parties.Get(ctx, input.ThirdPartyID)
	if err != nil {
		return Document{}, err
	}
	if party.CompanyID != input.CompanyID {
		return Document{}, shared.ErrThirdPartyNotFound
	}

	var acc PostingAccounts
	acc.Bank = input.BankAccountID
	if input.Type == TypeReceipt {
		if !party.IsClient() {
			return Document{}, shared.ErrWrongThirdPartyRole
		}
		if acc.Receivable, err = party.ReceivableAccount(); err != nil {
			return Document{}, err
		}
	} else {
		if !party.IsSupplier() {
			return Document{}, shared.ErrWrongThirdPartyRole
		}
		if acc.Payable, err = party.PayableAccount(); err != nil {
			return Document{}, err
		}
	}

	allocated := decimal.Zero
	for _, alloc := range input.Allocations {
		allocated = allocated.Add(alloc.Amount)
	}
	doc := Document{
		ID:           uuid.New(),
		CompanyID:    input.CompanyID,
		Type:         input.Type,
		Number:       input.Number,
		Date:         input.Date,
		ThirdPartyID: input.ThirdPartyID,
		Subtotal:     input.Amount,
		TaxAmount:    decimal.Zero,
		Total:        input.Amount,
		Balance:      input.Amount.Sub(allocated),
		Status:       StatusFor(input.Amount.Sub(allocated), input.Amount),
	}

	posting := journals.PostingInput{
		CompanyID: input.CompanyID,
		Date:      input.Date,
		Memo:      EntryMemo(doc, nil),
		Lines:     SettlementLines(doc, acc),
	}
	if err := posting.Validate(); err != nil {
		return Document{}, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertDocument(ctx, doc)
		if err != nil {
			return err
		}
		doc = inserted
		if err := ensurePostable(ctx, tx, input.CompanyID, posting.Lines); err != nil {
			return err
		}
		entry, err := tx.InsertJournalEntry(ctx, posting)
		if err != nil {
			return err
		}
		if err := tx.InsertJournalLines(ctx, entry.ID, posting.Lines); err != nil {
			return err
		}
		if err := tx.SetJournalEntry(ctx, doc.ID, entry.ID); err != nil {
			return err
		}
		doc.JournalEntryID = &entry.ID
		for _, alloc := range input.Allocations {
			if err := s.applyAllocation(ctx, tx, doc, alloc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// CreateWithholding records a retention certificate, posts its journal
// entry, and reduces the target document's balance, all in one
// transaction. Any failure aborts the whole operation.
func (s *Service) CreateWithholding(ctx context.Context, input WithholdingInput) (Withholding, error) {
	if err := input.Validate(); err != nil {
		return Withholding{}, err
	}

	target, err := s.repo.Get(ctx, input.DocumentID)
	if err != nil {
		return Withholding{}, err
	}
	if target.CompanyID != input.CompanyID {
		return Withholding{}, shared.ErrDocumentNotFound
	}
	sale, err := withholdingSide(target.Type)
	if err != nil {
		return Withholding{}, err
	}

	party, err := s.parties.Get(ctx, target.ThirdPartyID)
	if err != nil {
		return Withholding{}, err
	}
	retention, err := s.taxes.RetentionConfig(ctx, input.CompanyID)
	if err != nil {
		return Withholding{}, err
	}
	var acc PostingAccounts
	if acc.Retention, err = retention.RetentionAccount(string(input.Type)); err != nil {
		return Withholding{}, err
	}
	if sale {
		if acc.Receivable, err = party.ReceivableAccount(); err != nil {
			return Withholding{}, err
		}
	} else {
		if acc.Payable, err = party.PayableAccount(); err != nil {
			return Withholding{}, err
		}
	}

	w := Withholding{
		CompanyID:    input.CompanyID,
		DocumentID:   input.DocumentID,
		ThirdPartyID: target.ThirdPartyID,
		Type:         input.Type,
		BaseAmount:   input.BaseAmount,
		Rate:         input.Rate,
		Amount:       WithholdingAmount(input.BaseAmount, input.Rate),
	}

	posting := journals.PostingInput{
		CompanyID: input.CompanyID,
		Date:      input.Date,
		Memo:      WithholdingMemo(w, target),
		Lines:     WithholdingLines(w, sale, acc),
	}
	if err := posting.Validate(); err != nil {
		return Withholding{}, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		locked, err := tx.GetDocumentForUpdate(ctx, input.DocumentID)
		if err != nil {
			return err
		}
		if w.Amount.GreaterThan(locked.Balance) {
			return shared.ErrAllocationExceedsBalance
		}
		inserted, err := tx.InsertWithholding(ctx, w)
		if err != nil {
			return err
		}
		w = inserted
		if err := ensurePostable(ctx, tx, input.CompanyID, posting.Lines); err != nil {
			return err
		}
		entry, err := tx.InsertJournalEntry(ctx, posting)
		if err != nil {
			return err
		}
		if err := tx.InsertJournalLines(ctx, entry.ID, posting.Lines); err != nil {
			return err
		}
		if err := tx.SetWithholdingEntry(ctx, w.ID, entry.ID); err != nil {
			return err
		}
		w.JournalEntryID = &entry.ID
		balance := locked.Balance.Sub(w.Amount)
		return tx.UpdateBalance(ctx, locked.ID, balance, StatusFor(balance, locked.Total))
	})
	if err != nil {
		return Withholding{}, err
	}
	return w, nil
}

// Resync rebuilds the journal lines of a document-owned entry from the
// document's current stored amounts, replacing the old lines in place.
// The entry header, its id and number stay untouched.
func (s *Service) Resync(ctx context.Context, entryID int64) (journals.JournalEntry, error) {
	var entry journals.JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		found, err := tx.GetJournalEntry(ctx, entryID)
		if err != nil {
			return err
		}
		entry = found

		lines, err := s.rebuildLines(ctx, tx, entryID)
		if err != nil {
			return err
		}
		posting := journals.PostingInput{CompanyID: entry.CompanyID, Date: entry.Date, Memo: entry.Memo, Lines: lines}
		if err := posting.Validate(); err != nil {
			return err
		}
		if err := ensurePostable(ctx, tx, entry.CompanyID, lines); err != nil {
			return err
		}
		if err := tx.DeleteJournalLines(ctx, entryID); err != nil {
			return err
		}
		return tx.InsertJournalLines(ctx, entryID, lines)
	})
	if err != nil {
		return journals.JournalEntry{}, err
	}
	return entry, nil
}

// rebuildLines re-derives the lines an entry should carry. Only entries
// owned by a trade document or a withholding have a deterministic
// source; receipts, payments, and manual entries do not.
func (s *Service) rebuildLines(ctx context.Context, tx TxRepository, entryID int64) ([]journals.PostingLineInput, error) {
	doc, err := tx.GetDocumentByEntry(ctx, entryID)
	if err == nil {
		return s.rebuildTradeLines(ctx, tx, doc)
	}
	if !errors.Is(err, shared.ErrDocumentNotFound) {
		return nil, err
	}
	w, err := tx.GetWithholdingByEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, shared.ErrDocumentNotFound) {
			return nil, shared.ErrNotResyncable
		}
		return nil, err
	}
	return s.rebuildWithholdingLines(ctx, tx, w)
}

func (s *Service) rebuildTradeLines(ctx context.Context, tx TxRepository, doc Document) ([]journals.PostingLineInput, error) {
	if !doc.Type.Settleable() {
		return nil, shared.ErrNotResyncable
	}
	var related *Document
	if doc.RelatedDocumentID != nil {
		found, err := tx.GetDocumentForUpdate(ctx, *doc.RelatedDocumentID)
		if err != nil {
			return nil, err
		}
		related = &found
	}
	sale, err := saleSide(doc.Type, related)
	if err != nil {
		return nil, err
	}
	party, err := s.parties.Get(ctx, doc.ThirdPartyID)
	if err != nil {
		return nil, err
	}
	tax, err := s.taxes.GetActive(ctx, doc.CompanyID)
	if err != nil {
		return nil, err
	}
	retention, err := s.taxes.RetentionConfig(ctx, doc.CompanyID)
	if err != nil {
		return nil, err
	}
	acc, err := tradeAccounts(sale, party, tax, retention)
	if err != nil {
		return nil, err
	}
	return TradeLines(doc, sale, acc), nil
}

func (s *Service) rebuildWithholdingLines(ctx context.Context, tx TxRepository, w Withholding) ([]journals.PostingLineInput, error) {
	target, err := tx.GetDocumentForUpdate(ctx, w.DocumentID)
	if err != nil {
		return nil, err
	}
	sale, err := withholdingSide(target.Type)
	if err != nil {
		return nil, err
	}
	party, err := s.parties.Get(ctx, w.ThirdPartyID)
	if err != nil {
		return nil, err
	}
	retention, err := s.taxes.RetentionConfig(ctx, w.CompanyID)
	if err != nil {
		return nil, err
	}
	var acc PostingAccounts
	if acc.Retention, err = retention.RetentionAccount(string(w.Type)); err != nil {
		return nil, err
	}
	if sale {
		if acc.Receivable, err = party.ReceivableAccount(); err != nil {
			return nil, err
		}
	} else {
		if acc.Payable, err = party.PayableAccount(); err != nil {
			return nil, err
		}
	}
	return WithholdingLines(w, sale, acc), nil
}

// applyAllocation settles part of the receipt against one open document.
func (s *Service) applyAllocation(ctx context.Context, tx TxRepository, receipt Document, alloc AllocationInput) error {
	target, err := tx.GetDocumentForUpdate(ctx, alloc.DocumentID)
	if err != nil {
		return err
	}
	if target.CompanyID != receipt.CompanyID {
		return shared.ErrDocumentNotFound
	}
	if target.ThirdPartyID != receipt.ThirdPartyID {
		return shared.ErrAllocationWrongThirdParty
	}
	if !target.Type.Settleable() || target.Status == StatusVoid {
		return shared.ErrDocumentNotSettleable
	}
	if alloc.Amount.GreaterThan(target.Balance) {
		return shared.ErrAllocationExceedsBalance
	}
	if _, err := tx.InsertAllocation(ctx, PaymentAllocation{
		ReceiptID:  receipt.ID,
		DocumentID: target.ID,
		Amount:     alloc.Amount,
	}); err != nil {
		return err
	}
	balance := target.Balance.Sub(alloc.Amount)
	return tx.UpdateBalance(ctx, target.ID, balance, StatusFor(balance, target.Total))
}

// adjustStock moves quantity on hand for tracked goods. Sales decrease
// stock, purchases increase it, and credit notes return it the other
// way. Debit notes never move stock.
func adjustStock(ctx context.Context, tx TxRepository, docType DocumentType, sale bool, items []DocumentItem) error {
	if docType == TypeDebitNote {
		return nil
	}
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		product, err := tx.GetProduct(ctx, *item.ProductID)
		if err != nil {
			return err
		}
		if !product.Tracked() {
			continue
		}
		delta := item.Quantity
		if sale {
			delta = delta.Neg()
		}
		if docType == TypeCreditNote {
			delta = delta.Neg()
		}
		if err := tx.AdjustProductQuantity(ctx, *item.ProductID, delta); err != nil {
			return err
		}
	}
	return nil
}

// saleSide resolves which side of the ledger a document moves. Notes
// inherit the side of the document they amend.
func saleSide(docType DocumentType, related *Document) (bool, error) {
	switch docType {
	case TypeInvoice:
		return true, nil
	case TypeBill:
		return false, nil
	case TypeCreditNote, TypeDebitNote:
		if related == nil {
			return false, errors.New("documents: note requires related document")
		}
		switch related.Type {
		case TypeInvoice:
			return true, nil
		case TypeBill:
			return false, nil
		}
		return false, errors.New("documents: note must amend an invoice or bill")
	}
	return false, errors.New("documents: unknown document type")
}

// withholdingSide resolves the ledger side for a retention target.
func withholdingSide(docType DocumentType) (bool, error) {
	switch docType {
	case TypeInvoice:
		return true, nil
	case TypeBill:
		return false, nil
	}
	return false, errors.New("documents: withholding requires an invoice or bill")
}

// tradeAccounts resolves the accounts an invoice, bill, or note posting
// needs, failing closed on missing configuration.
func tradeAccounts(sale bool, party thirdparties.ThirdParty, tax taxes.Tax, retention taxes.RetentionConfig) (PostingAccounts, error) {
	var acc PostingAccounts
	fiscalDebit, fiscalCredit, err := tax.PostingAccounts()
	if err != nil {
		return PostingAccounts{}, err
	}
	if sale {
		acc.FiscalDebit = fiscalDebit
		if acc.Receivable, err = party.ReceivableAccount(); err != nil {
			return PostingAccounts{}, err
		}
		if acc.Sales, err = retention.SalesAccount(); err != nil {
			return PostingAccounts{}, err
		}
		return acc, nil
	}
	acc.FiscalCredit = fiscalCredit
	if acc.Payable, err = party.PayableAccount(); err != nil {
		return PostingAccounts{}, err
	}
	if acc.Purchases, err = retention.PurchaseAccount(); err != nil {
		return PostingAccounts{}, err
	}
	return acc, nil
}

// computeTotals prices each item and derives document totals with the
// active tax rate, rounding every money amount to cents.
func computeTotals(inputs []ItemInput, rate decimal.Decimal) ([]DocumentItem, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	items := make([]DocumentItem, 0, len(inputs))
	subtotal := decimal.Zero
	for _, in := range inputs {
		lineTotal := in.Quantity.Mul(in.UnitPrice).Round(2)
		items = append(items, DocumentItem{
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	taxAmount := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	return items, subtotal, taxAmount, subtotal.Add(taxAmount)
}

// ensurePostable rejects lines against parent accounts or accounts
// outside the document's company. Duplicated from the journals service
// because the check must run inside the document transaction.
func ensurePostable(ctx context.Context, tx TxRepository, companyID int64, lines []journals.PostingLineInput) error {
	for _, line := range lines {
		accountCompany, err := tx.GetAccountCompany(ctx, line.AccountID)
		if err != nil {
			return err
		}
		if accountCompany != companyID {
			return shared.ErrAccountNotFound
		}
		children, err := tx.CountAccountChildren(ctx, line.AccountID)
		if err != nil {
			return err
		}
		if children > 0 {
			return shared.ErrPostingToParent
		}
	}
	return nil
}
