package documents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andino-erp/andino-erp/internal/inventory"
	"github.com/andino-erp/andino-erp/internal/ledger/journals"
	"github.com/andino-erp/andino-erp/internal/ledger/shared"
	"github.com/andino-erp/andino-erp/internal/masterdata/taxes"
	"github.com/andino-erp/andino-erp/internal/masterdata/thirdparties"
	_ "github.com/andino-erp/andino-erp/testing"
)

type fakeAccount struct {
	companyID int64
	children  int64
}

type mockRepository struct {
	accounts     map[int64]fakeAccount
	products     map[int64]*inventory.Product
	docs         map[uuid.UUID]*Document
	items        map[uuid.UUID][]DocumentItem
	withholdings map[int64]*Withholding
	entries      map[int64]*journals.JournalEntry
	lines        map[int64][]journals.PostingLineInput
	allocations  []PaymentAllocation
	nextEntryID  int64
	nextWID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts:     map[int64]fakeAccount{},
		products:     map[int64]*inventory.Product{},
		docs:         map[uuid.UUID]*Document{},
		items:        map[uuid.UUID][]DocumentItem{},
		withholdings: map[int64]*Withholding{},
		entries:      map[int64]*journals.JournalEntry{},
		lines:        map[int64][]journals.PostingLineInput{},
	}
}

func (m *mockRepository) Get(_ context.Context, id uuid.UUID) (Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return Document{}, shared.ErrDocumentNotFound
	}
	out := *doc
	out.Items = m.items[id]
	return out, nil
}

func (m *mockRepository) List(_ context.Context, companyID int64, docType DocumentType) ([]Document, error) {
	var out []Document
	for _, doc := range m.docs {
		if doc.CompanyID == companyID && (docType == "" || doc.Type == docType) {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *mockRepository) ListWithholdings(_ context.Context, companyID int64) ([]Withholding, error) {
	var out []Withholding
	for _, w := range m.withholdings {
		if w.CompanyID == companyID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) InsertDocument(_ context.Context, doc Document) (Document, error) {
	for _, existing := range m.docs {
		if existing.CompanyID == doc.CompanyID && existing.Type == doc.Type && existing.Number == doc.Number {
			return Document{}, shared.ErrDuplicateDocument
		}
	}
	stored := doc
	m.docs[doc.ID] = &stored
	return doc, nil
}

func (m *mockRepository) InsertItems(_ context.Context, docID uuid.UUID, items []DocumentItem) error {
	m.items[docID] = append(m.items[docID], items...)
	return nil
}

func (m *mockRepository) GetDocumentForUpdate(_ context.Context, id uuid.UUID) (Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return Document{}, shared.ErrDocumentNotFound
	}
	return *doc, nil
}

func (m *mockRepository) GetDocumentByEntry(_ context.Context, entryID int64) (Document, error) {
	for _, doc := range m.docs {
		if doc.JournalEntryID != nil && *doc.JournalEntryID == entryID {
			return *doc, nil
		}
	}
	return Document{}, shared.ErrDocumentNotFound
}

func (m *mockRepository) SetJournalEntry(_ context.Context, docID uuid.UUID, entryID int64) error {
	m.docs[docID].JournalEntryID = &entryID
	return nil
}

func (m *mockRepository) UpdateBalance(_ context.Context, docID uuid.UUID, balance decimal.Decimal, status DocumentStatus) error {
	doc, ok := m.docs[docID]
	if !ok {
		return shared.ErrDocumentNotFound
	}
	doc.Balance = balance
	doc.Status = status
	return nil
}

func (m *mockRepository) InsertWithholding(_ context.Context, w Withholding) (Withholding, error) {
	m.nextWID++
	w.ID = m.nextWID
	stored := w
	m.withholdings[w.ID] = &stored
	return w, nil
}

func (m *mockRepository) GetWithholdingByEntry(_ context.Context, entryID int64) (Withholding, error) {
	for _, w := range m.withholdings {
		if w.JournalEntryID != nil && *w.JournalEntryID == entryID {
			return *w, nil
		}
	}
	return Withholding{}, shared.ErrDocumentNotFound
}

func (m *mockRepository) SetWithholdingEntry(_ context.Context, withholdingID, entryID int64) error {
	m.withholdings[withholdingID].JournalEntryID = &entryID
	return nil
}

func (m *mockRepository) InsertAllocation(_ context.Context, alloc PaymentAllocation) (PaymentAllocation, error) {
	alloc.ID = int64(len(m.allocations) + 1)
	m.allocations = append(m.allocations, alloc)
	return alloc, nil
}

func (m *mockRepository) InsertJournalEntry(_ context.Context, in journals.PostingInput) (journals.JournalEntry, error) {
	m.nextEntryID++
	entry := journals.JournalEntry{
		ID:        m.nextEntryID,
		CompanyID: in.CompanyID,
		Number:    m.nextEntryID,
		Date:      in.Date,
		Memo:      in.Memo,
		Status:    journals.EntryStatusPosted,
	}
	stored := entry
	m.entries[entry.ID] = &stored
	return entry, nil
}

func (m *mockRepository) InsertJournalLines(_ context.Context, entryID int64, lines []journals.PostingLineInput) error {
	m.lines[entryID] = append(m.lines[entryID], lines...)
	return nil
}

func (m *mockRepository) DeleteJournalLines(_ context.Context, entryID int64) error {
	delete(m.lines, entryID)
	return nil
}

func (m *mockRepository) GetJournalEntry(_ context.Context, entryID int64) (journals.JournalEntry, error) {
	entry, ok := m.entries[entryID]
	if !ok {
		return journals.JournalEntry{}, shared.ErrJournalNotFound
	}
	return *entry, nil
}

func (m *mockRepository) GetAccountCompany(_ context.Context, accountID int64) (int64, error) {
	acc, ok := m.accounts[accountID]
	if !ok {
		return 0, shared.ErrAccountNotFound
	}
	return acc.companyID, nil
}

func (m *mockRepository) CountAccountChildren(_ context.Context, accountID int64) (int64, error) {
	return m.accounts[accountID].children, nil
}

func (m *mockRepository) GetProduct(_ context.Context, productID int64) (inventory.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return inventory.Product{}, inventory.ErrProductNotFound
	}
	return *p, nil
}

func (m *mockRepository) AdjustProductQuantity(_ context.Context, productID int64, delta decimal.Decimal) error {
	p, ok := m.products[productID]
	if !ok {
		return inventory.ErrProductNotFound
	}
	p.QuantityOnHand = p.QuantityOnHand.Add(delta)
	return nil
}

type mockTaxes struct {
	tax taxes.Tax
	cfg taxes.RetentionConfig
}

func (m mockTaxes) GetActive(context.Context, int64) (taxes.Tax, error) {
	return m.tax, nil
}

func (m mockTaxes) RetentionConfig(context.Context, int64) (taxes.RetentionConfig, error) {
	return m.cfg, nil
}

type mockParties struct {
	parties map[int64]thirdparties.ThirdParty
}

func (m mockParties) Get(_ context.Context, id int64) (thirdparties.ThirdParty, error) {
	party, ok := m.parties[id]
	if !ok {
		return thirdparties.ThirdParty{}, shared.ErrThirdPartyNotFound
	}
	return party, nil
}

func i64(v int64) *int64 { return &v }

const (
	accReceivable = int64(10)
	accSales      = int64(11)
	accFiscalDeb  = int64(12)
	accPayable    = int64(13)
	accPurchases  = int64(14)
	accFiscalCred = int64(15)
	accBank       = int64(16)
	accRetIVA     = int64(17)
	accRetISLR    = int64(18)
)

func newFixture() (*mockRepository, *Service) {
	repo := newMockRepository()
	for _, id := range []int64{accReceivable, accSales, accFiscalDeb, accPayable, accPurchases, accFiscalCred, accBank, accRetIVA, accRetISLR} {
		repo.accounts[id] = fakeAccount{companyID: 1}
	}
	repo.accounts[19] = fakeAccount{companyID: 1, children: 2}
	repo.products[100] = &inventory.Product{ID: 100, CompanyID: 1, SKU: "W-01", IsGood: true, TrackInventory: true, QuantityOnHand: dec("50")}
	repo.products[101] = &inventory.Product{ID: 101, CompanyID: 1, SKU: "SVC-01", IsGood: false}

	taxPort := mockTaxes{
		tax: taxes.Tax{ID: 1, CompanyID: 1, Code: "IVA", Rate: dec("16"),
			FiscalDebitAccountID: i64(accFiscalDeb), FiscalCreditAccountID: i64(accFiscalCred), IsActive: true},
		cfg: taxes.RetentionConfig{CompanyID: 1,
			IVAAccountID: i64(accRetIVA), ISLRAccountID: i64(accRetISLR),
			SalesAccountID: i64(accSales), PurchaseAccountID: i64(accPurchases)},
	}
	partyPort := mockParties{parties: map[int64]thirdparties.ThirdParty{
		1: {ID: 1, CompanyID: 1, Name: "Cliente C.A.", Kind: thirdparties.KindClient, ReceivableAccountID: i64(accReceivable)},
		2: {ID: 2, CompanyID: 1, Name: "Proveedor C.A.", Kind: thirdparties.KindSupplier, PayableAccountID: i64(accPayable)},
	}}
	return repo, NewService(repo, taxPort, partyPort)
}

func invoiceInput() CreateInput {
	return CreateInput{
		CompanyID:    1,
		Type:         TypeInvoice,
		Number:       "FAC-001",
		Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ThirdPartyID: 1,
		Items: []ItemInput{
			{ProductID: i64(100), Description: "Widget", Quantity: dec("10"), UnitPrice: dec("100")},
		},
	}
}

func TestCreateInvoicePostsBalancedEntry(t *testing.T) {
	repo, svc := newFixture()

	doc, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)
	require.True(t, doc.Subtotal.Equal(dec("1000")))
	require.True(t, doc.TaxAmount.Equal(dec("160")))
	require.True(t, doc.Total.Equal(dec("1160")))
	require.True(t, doc.Balance.Equal(dec("1160")))
	require.Equal(t, StatusPending, doc.Status)
	require.NotNil(t, doc.JournalEntryID)

	lines := repo.lines[*doc.JournalEntryID]
	require.Len(t, lines, 3)
	assertBalanced(t, lines)
	require.True(t, findLine(t, lines, accReceivable).Debit.Equal(dec("1160")))
	require.True(t, findLine(t, lines, accSales).Credit.Equal(dec("1000")))
	require.True(t, findLine(t, lines, accFiscalDeb).Credit.Equal(dec("160")))

	require.True(t, repo.products[100].QuantityOnHand.Equal(dec("40")))
}

func TestCreateBillPostsPurchaseEntry(t *testing.T) {
	repo, svc := newFixture()

	input := invoiceInput()
	input.Type = TypeBill
	input.ThirdPartyID = 2
	doc, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	lines := repo.lines[*doc.JournalEntryID]
	require.Len(t, lines, 3)
	assertBalanced(t, lines)
	require.True(t, findLine(t, lines, accPurchases).Debit.Equal(dec("1000")))
	require.True(t, findLine(t, lines, accFiscalCred).Debit.Equal(dec("160")))
	require.True(t, findLine(t, lines, accPayable).Credit.Equal(dec("1160")))

	// purchases restock tracked goods
	require.True(t, repo.products[100].QuantityOnHand.Equal(dec("60")))
}

func TestCreateCreditNoteMirrorsInvoice(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)

	note := invoiceInput()
	note.Type = TypeCreditNote
	note.Number = "NC-001"
	note.RelatedDocumentID = &invoice.ID
	doc, err := svc.Create(context.Background(), note)
	require.NoError(t, err)

	lines := repo.lines[*doc.JournalEntryID]
	assertBalanced(t, lines)
	require.True(t, findLine(t, lines, accReceivable).Credit.Equal(dec("1160")))
	require.True(t, findLine(t, lines, accSales).Debit.Equal(dec("1000")))

	entry := repo.entries[*doc.JournalEntryID]
	require.Contains(t, entry.Memo, "Factura afectada: FAC-001")

	// sale then return: 50 - 10 + 10
	require.True(t, repo.products[100].QuantityOnHand.Equal(dec("50")))
}

func TestCreateInvoiceWrongRoleRejected(t *testing.T) {
	_, svc := newFixture()

	input := invoiceInput()
	input.ThirdPartyID = 2
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrWrongThirdPartyRole)
}

func TestCreateInvoiceMissingTaxConfig(t *testing.T) {
	repo, _ := newFixture()
	taxPort := mockTaxes{
		tax: taxes.Tax{ID: 1, CompanyID: 1, Rate: dec("16"), IsActive: true},
		cfg: taxes.RetentionConfig{CompanyID: 1},
	}
	svc := NewService(repo, taxPort, mockParties{parties: map[int64]thirdparties.ThirdParty{
		1: {ID: 1, CompanyID: 1, Kind: thirdparties.KindClient, ReceivableAccountID: i64(accReceivable)},
	}})

	_, err := svc.Create(context.Background(), invoiceInput())
	require.ErrorIs(t, err, shared.ErrMissingTaxConfig)
	require.Empty(t, repo.docs)
}

func TestReceiptAllocationSettlesInvoice(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)

	receipt, err := svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: accBank,
		Amount:        dec("500"),
		Allocations:   []AllocationInput{{DocumentID: invoice.ID, Amount: dec("500")}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, receipt.Status)

	settled := repo.docs[invoice.ID]
	require.True(t, settled.Balance.Equal(dec("660")))
	require.Equal(t, StatusPartial, settled.Status)

	lines := repo.lines[*receipt.JournalEntryID]
	assertBalanced(t, lines)
	require.True(t, findLine(t, lines, accBank).Debit.Equal(dec("500")))
	require.True(t, findLine(t, lines, accReceivable).Credit.Equal(dec("500")))
	require.Len(t, repo.allocations, 1)
}

func TestReceiptFullSettlementMarksPaid(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)

	_, err = svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: accBank,
		Amount:        dec("1160"),
		Allocations:   []AllocationInput{{DocumentID: invoice.ID, Amount: dec("1160")}},
	})
	require.NoError(t, err)

	settled := repo.docs[invoice.ID]
	require.True(t, settled.Balance.IsZero())
	require.Equal(t, StatusPaid, settled.Status)
}

func TestAllocationExceedingBalanceRejected(t *testing.T) {
	_, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)

	_, err = svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: accBank,
		Amount:        dec("2000"),
		Allocations:   []AllocationInput{{DocumentID: invoice.ID, Amount: dec("2000")}},
	})
	require.ErrorIs(t, err, shared.ErrAllocationExceedsBalance)
}

func TestReceiptCannotSettleAnotherPartysDocument(t *testing.T) {
	repo, svc := newFixture()

	bill := invoiceInput()
	bill.Type = TypeBill
	bill.Number = "FACP-001"
	bill.ThirdPartyID = 2
	supplierBill, err := svc.Create(context.Background(), bill)
	require.NoError(t, err)

	_, err = svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: accBank,
		Amount:        dec("500"),
		Allocations:   []AllocationInput{{DocumentID: supplierBill.ID, Amount: dec("500")}},
	})
	require.ErrorIs(t, err, shared.ErrAllocationWrongThirdParty)

	untouched := repo.docs[supplierBill.ID]
	require.True(t, untouched.Balance.Equal(dec("1160")))
	require.Equal(t, StatusPending, untouched.Status)
	require.Empty(t, repo.allocations)
}

func TestAllocationAgainstVoidDocumentRejected(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)
	repo.docs[invoice.ID].Status = StatusVoid

	_, err = svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: accBank,
		Amount:        dec("500"),
		Allocations:   []AllocationInput{{DocumentID: invoice.ID, Amount: dec("500")}},
	})
	require.ErrorIs(t, err, shared.ErrDocumentNotSettleable)
}

func TestWithholdingReducesInvoiceBalance(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)

	w, err := svc.CreateWithholding(context.Background(), WithholdingInput{
		CompanyID:  1,
		DocumentID: invoice.ID,
		Date:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:       RetentionISLR,
		BaseAmount: dec("1000"),
		Rate:       dec("3"),
	})
	require.NoError(t, err)
	require.True(t, w.Amount.Equal(dec("30")))
	require.NotNil(t, w.JournalEntryID)

	target := repo.docs[invoice.ID]
	require.True(t, target.Balance.Equal(dec("1130")))
	require.Equal(t, StatusPartial, target.Status)

	lines := repo.lines[*w.JournalEntryID]
	require.Len(t, lines, 2)
	assertBalanced(t, lines)
	require.True(t, findLine(t, lines, accRetISLR).Debit.Equal(dec("30")))
	require.True(t, findLine(t, lines, accReceivable).Credit.Equal(dec("30")))
}

func TestWithholdingExceedingBalanceAborts(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)

	_, err = svc.CreateWithholding(context.Background(), WithholdingInput{
		CompanyID:  1,
		DocumentID: invoice.ID,
		Date:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:       RetentionIVA,
		BaseAmount: dec("10000"),
		Rate:       dec("75"),
	})
	require.ErrorIs(t, err, shared.ErrAllocationExceedsBalance)
	require.True(t, repo.docs[invoice.ID].Balance.Equal(dec("1160")))
}

func TestResyncRebuildsInvoiceLines(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)
	entryID := *invoice.JournalEntryID

	// simulate drift between the stored lines and the document
	repo.lines[entryID] = []journals.PostingLineInput{
		{AccountID: accReceivable, Debit: dec("999")},
		{AccountID: accSales, Credit: dec("999")},
	}

	_, err = svc.Resync(context.Background(), entryID)
	require.NoError(t, err)

	lines := repo.lines[entryID]
	require.Len(t, lines, 3)
	assertBalanced(t, lines)
	require.True(t, findLine(t, lines, accReceivable).Debit.Equal(dec("1160")))
	require.True(t, findLine(t, lines, accSales).Credit.Equal(dec("1000")))
	require.True(t, findLine(t, lines, accFiscalDeb).Credit.Equal(dec("160")))
}

func TestResyncWithholdingEntry(t *testing.T) {
	repo, svc := newFixture()

	invoice, err := svc.Create(context.Background(), invoiceInput())
	require.NoError(t, err)
	w, err := svc.CreateWithholding(context.Background(), WithholdingInput{
		CompanyID:  1,
		DocumentID: invoice.ID,
		Date:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:       RetentionISLR,
		BaseAmount: dec("1000"),
		Rate:       dec("3"),
	})
	require.NoError(t, err)
	entryID := *w.JournalEntryID

	repo.lines[entryID] = nil
	_, err = svc.Resync(context.Background(), entryID)
	require.NoError(t, err)

	lines := repo.lines[entryID]
	require.Len(t, lines, 2)
	require.True(t, findLine(t, lines, accRetISLR).Debit.Equal(dec("30")))
}

func TestResyncManualEntryNotResyncable(t *testing.T) {
	repo, svc := newFixture()
	repo.entries[99] = &journals.JournalEntry{ID: 99, CompanyID: 1, Status: journals.EntryStatusPosted}

	_, err := svc.Resync(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotResyncable)
}

func TestResyncReceiptNotResyncable(t *testing.T) {
	_, svc := newFixture()

	receipt, err := svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: accBank,
		Amount:        dec("500"),
	})
	require.NoError(t, err)

	_, err = svc.Resync(context.Background(), *receipt.JournalEntryID)
	require.ErrorIs(t, err, shared.ErrNotResyncable)
}

func TestCreateOnParentBankAccountRejected(t *testing.T) {
	_, svc := newFixture()

	_, err := svc.CreateReceipt(context.Background(), ReceiptInput{
		CompanyID:     1,
		Type:          TypeReceipt,
		Number:        "REC-001",
		Date:          time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ThirdPartyID:  1,
		BankAccountID: 19,
		Amount:        dec("500"),
	})
	require.ErrorIs(t, err, shared.ErrPostingToParent)
}
