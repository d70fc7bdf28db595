package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/inventory"
	"github.com/andino-erp/andino-erp/internal/ledger/journals"
	"github.com/andino-erp/andino-erp/internal/ledger/shared"
	"github.com/andino-erp/andino-erp/internal/platform/db"
)

const uniqueViolation = "23505"

// Repository encapsulates DB operations for documents.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (Document, error)
	List(ctx context.Context, companyID int64, docType DocumentType) ([]Document, error)
	ListWithholdings(ctx context.Context, companyID int64) ([]Withholding, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a posting transaction.
// Journal, account, and product operations are duplicated from their
// own repos because the whole document flow must commit or roll back as
// one unit.
type TxRepository interface {
	InsertDocument(ctx context.Context, doc Document) (Document, error)
	InsertItems(ctx context.Context, docID uuid.UUID, items []DocumentItem) error
	GetDocumentForUpdate(ctx context.Context, id uuid.UUID) (Document, error)
	GetDocumentByEntry(ctx context.Context, entryID int64) (Document, error)
	SetJournalEntry(ctx context.Context, docID uuid.UUID, entryID int64) error
	UpdateBalance(ctx context.Context, docID uuid.UUID, balance decimal.Decimal, status DocumentStatus) error
	InsertWithholding(ctx context.Context, w Withholding) (Withholding, error)
	GetWithholdingByEntry(ctx context.Context, entryID int64) (Withholding, error)
	SetWithholdingEntry(ctx context.Context, withholdingID, entryID int64) error
	InsertAllocation(ctx context.Context, alloc PaymentAllocation) (PaymentAllocation, error)
	InsertJournalEntry(ctx context.Context, in journals.PostingInput) (journals.JournalEntry, error)
	InsertJournalLines(ctx context.Context, entryID int64, lines []journals.PostingLineInput) error
	DeleteJournalLines(ctx context.Context, entryID int64) error
	GetJournalEntry(ctx context.Context, entryID int64) (journals.JournalEntry, error)
	GetAccountCompany(ctx context.Context, accountID int64) (int64, error)
	CountAccountChildren(ctx context.Context, accountID int64) (int64, error)
	GetProduct(ctx context.Context, productID int64) (inventory.Product, error)
	AdjustProductQuantity(ctx context.Context, productID int64, delta decimal.Decimal) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository over a pgx pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const documentColumns = `id, company_id, type, number, date, third_party_id, related_document_id,
subtotal::text, tax_amount::text, total::text, balance::text, status, journal_entry_id, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, err := scanDocument(r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, shared.ErrDocumentNotFound
		}
		return Document{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, document_id, product_id, description, quantity::text, unit_price::text, line_total::text
FROM document_items WHERE document_id=$1 ORDER BY id ASC`, id)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return Document{}, err
		}
		doc.Items = append(doc.Items, item)
	}
	return doc, rows.Err()
}

func (r *repository) List(ctx context.Context, companyID int64, docType DocumentType) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id=$1`
	args := []any{companyID}
	if docType != "" {
		query += ` AND type=$2`
		args = append(args, docType)
	}
	query += ` ORDER BY date DESC, number DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *repository) ListWithholdings(ctx context.Context, companyID int64) ([]Withholding, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, document_id, third_party_id, type, base_amount::text, rate::text, amount::text, journal_entry_id, created_at
FROM withholdings WHERE company_id=$1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Withholding
	for rows.Next() {
		w, err := scanWithholding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// WithTx executes fn within a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertDocument(ctx context.Context, doc Document) (Document, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO documents
(id, company_id, type, number, date, third_party_id, related_document_id, subtotal, tax_amount, total, balance, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING created_at, updated_at`,
		doc.ID, doc.CompanyID, doc.Type, doc.Number, doc.Date, doc.ThirdPartyID, doc.RelatedDocumentID,
		toNumeric(doc.Subtotal), toNumeric(doc.TaxAmount), toNumeric(doc.Total), toNumeric(doc.Balance), doc.Status)
	if err := row.Scan(&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Document{}, shared.ErrDuplicateDocument
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *txRepository) InsertItems(ctx context.Context, docID uuid.UUID, items []DocumentItem) error {
	for _, item := range items {
		_, err := r.tx.Exec(ctx, `INSERT INTO document_items (document_id, product_id, description, quantity, unit_price, line_total)
VALUES ($1,$2,$3,$4,$5,$6)`,
			docID, item.ProductID, item.Description, item.Quantity.String(), item.UnitPrice.String(), toNumeric(item.LineTotal))
		if err != nil {
			return err
		}
	}
	return nil
}

// GetDocumentForUpdate row-locks the document so concurrent settlements
// serialize on its balance.
func (r *txRepository) GetDocumentForUpdate(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, err := scanDocument(r.tx.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, shared.ErrDocumentNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *txRepository) GetDocumentByEntry(ctx context.Context, entryID int64) (Document, error) {
	doc, err := scanDocument(r.tx.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE journal_entry_id=$1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, shared.ErrDocumentNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *txRepository) SetJournalEntry(ctx context.Context, docID uuid.UUID, entryID int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE documents SET journal_entry_id=$2, updated_at=NOW() WHERE id=$1`, docID, entryID)
	return err
}

func (r *txRepository) UpdateBalance(ctx context.Context, docID uuid.UUID, balance decimal.Decimal, status DocumentStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE documents SET balance=$2, status=$3, updated_at=NOW() WHERE id=$1`,
		docID, toNumeric(balance), status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrDocumentNotFound
	}
	return nil
}

func (r *txRepository) InsertWithholding(ctx context.Context, w Withholding) (Withholding, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO withholdings (company_id, document_id, third_party_id, type, base_amount, rate, amount)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
		w.CompanyID, w.DocumentID, w.ThirdPartyID, w.Type, toNumeric(w.BaseAmount), w.Rate.String(), toNumeric(w.Amount))
	if err := row.Scan(&w.ID, &w.CreatedAt); err != nil {
		return Withholding{}, err
	}
	return w, nil
}

func (r *txRepository) GetWithholdingByEntry(ctx context.Context, entryID int64) (Withholding, error) {
	w, err := scanWithholding(r.tx.QueryRow(ctx, `SELECT id, company_id, document_id, third_party_id, type, base_amount::text, rate::text, amount::text, journal_entry_id, created_at
FROM withholdings WHERE journal_entry_id=$1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Withholding{}, shared.ErrDocumentNotFound
		}
		return Withholding{}, err
	}
	return w, nil
}

func (r *txRepository) SetWithholdingEntry(ctx context.Context, withholdingID, entryID int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE withholdings SET journal_entry_id=$2 WHERE id=$1`, withholdingID, entryID)
	return err
}

func (r *txRepository) InsertAllocation(ctx context.Context, alloc PaymentAllocation) (PaymentAllocation, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO payment_allocations (receipt_id, document_id, amount)
VALUES ($1,$2,$3) RETURNING id, created_at`, alloc.ReceiptID, alloc.DocumentID, toNumeric(alloc.Amount))
	if err := row.Scan(&alloc.ID, &alloc.CreatedAt); err != nil {
		return PaymentAllocation{}, err
	}
	return alloc, nil
}

func (r *txRepository) InsertJournalEntry(ctx context.Context, in journals.PostingInput) (journals.JournalEntry, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, number, date, memo, status)
VALUES ($1, (SELECT COALESCE(MAX(number),0)+1 FROM journal_entries WHERE company_id=$1), $2, $3, 'POSTED')
RETURNING id, number, created_at, updated_at`, in.CompanyID, in.Date, in.Memo)
	var entry journals.JournalEntry
	entry.CompanyID = in.CompanyID
	entry.Date = in.Date
	entry.Memo = in.Memo
	entry.Status = journals.EntryStatusPosted
	if err := row.Scan(&entry.ID, &entry.Number, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return journals.JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertJournalLines(ctx context.Context, entryID int64, lines []journals.PostingLineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit, memo)
VALUES ($1,$2,$3,$4,$5)`, entryID, line.AccountID, toNumeric(line.Debit), toNumeric(line.Credit), line.Memo); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) DeleteJournalLines(ctx context.Context, entryID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, entryID)
	return err
}

func (r *txRepository) GetJournalEntry(ctx context.Context, entryID int64) (journals.JournalEntry, error) {
	var entry journals.JournalEntry
	err := r.tx.QueryRow(ctx, `SELECT id, company_id, number, date, memo, status, created_at, updated_at
FROM journal_entries WHERE id=$1`, entryID).
		Scan(&entry.ID, &entry.CompanyID, &entry.Number, &entry.Date, &entry.Memo, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return journals.JournalEntry{}, shared.ErrJournalNotFound
		}
		return journals.JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) GetAccountCompany(ctx context.Context, accountID int64) (int64, error) {
	var companyID int64
	err := r.tx.QueryRow(ctx, `SELECT company_id FROM accounts WHERE id=$1`, accountID).Scan(&companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrAccountNotFound
		}
		return 0, err
	}
	return companyID, nil
}

func (r *txRepository) CountAccountChildren(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE parent_id=$1`, accountID).Scan(&n)
	return n, err
}

func (r *txRepository) GetProduct(ctx context.Context, productID int64) (inventory.Product, error) {
	var p inventory.Product
	var qty string
	err := r.tx.QueryRow(ctx, `SELECT id, company_id, sku, name, is_good, track_inventory, quantity_on_hand::text, created_at, updated_at
FROM products WHERE id=$1`, productID).
		Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.IsGood, &p.TrackInventory, &qty, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Product{}, inventory.ErrProductNotFound
		}
		return inventory.Product{}, err
	}
	if p.QuantityOnHand, err = decimal.NewFromString(qty); err != nil {
		return inventory.Product{}, err
	}
	return p, nil
}

func (r *txRepository) AdjustProductQuantity(ctx context.Context, productID int64, delta decimal.Decimal) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE products SET quantity_on_hand=quantity_on_hand+$2, updated_at=NOW() WHERE id=$1`,
		productID, delta.String())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return inventory.ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var subtotal, tax, total, balance string
	err := row.Scan(&doc.ID, &doc.CompanyID, &doc.Type, &doc.Number, &doc.Date, &doc.ThirdPartyID, &doc.RelatedDocumentID,
		&subtotal, &tax, &total, &balance, &doc.Status, &doc.JournalEntryID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return Document{}, err
	}
	if doc.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Document{}, err
	}
	if doc.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return Document{}, err
	}
	if doc.Total, err = decimal.NewFromString(total); err != nil {
		return Document{}, err
	}
	if doc.Balance, err = decimal.NewFromString(balance); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func scanItem(row rowScanner) (DocumentItem, error) {
	var item DocumentItem
	var qty, price, total string
	err := row.Scan(&item.ID, &item.DocumentID, &item.ProductID, &item.Description, &qty, &price, &total)
	if err != nil {
		return DocumentItem{}, err
	}
	if item.Quantity, err = decimal.NewFromString(qty); err != nil {
		return DocumentItem{}, err
	}
	if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
		return DocumentItem{}, err
	}
	if item.LineTotal, err = decimal.NewFromString(total); err != nil {
		return DocumentItem{}, err
	}
	return item, nil
}

func scanWithholding(row rowScanner) (Withholding, error) {
	var w Withholding
	var base, rate, amount string
	err := row.Scan(&w.ID, &w.CompanyID, &w.DocumentID, &w.ThirdPartyID, &w.Type, &base, &rate, &amount, &w.JournalEntryID, &w.CreatedAt)
	if err != nil {
		return Withholding{}, err
	}
	if w.BaseAmount, err = decimal.NewFromString(base); err != nil {
		return Withholding{}, err
	}
	if w.Rate, err = decimal.NewFromString(rate); err != nil {
		return Withholding{}, err
	}
	if w.Amount, err = decimal.NewFromString(amount); err != nil {
		return Withholding{}, err
	}
	return w, nil
}

func toNumeric(d decimal.Decimal) string {
	return d.StringFixed(2)
}
