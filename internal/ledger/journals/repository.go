package journals

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
	"github.com/andino-erp/andino-erp/internal/platform/db"
)

// Repository encapsulates DB operations for journal entries.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a transaction. Account
// lookups are duplicated from the accounts repo because postability must
// be checked inside the posting transaction.
type TxRepository interface {
	InsertEntry(ctx context.Context, in PostingInput) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) error
	GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error)
	UpdateEntryHeader(ctx context.Context, entryID int64, date time.Time, memo string) error
	DeleteLines(ctx context.Context, entryID int64) error
	DeleteEntry(ctx context.Context, entryID int64) error
	GetAccountCompany(ctx context.Context, accountID int64) (int64, error)
	CountAccountChildren(ctx context.Context, accountID int64) (int64, error)
	CountOwningDocuments(ctx context.Context, entryID int64) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository over a pgx pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, number, date, memo, status, created_at, updated_at
FROM journal_entries WHERE company_id=$1 ORDER BY number DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		err := rows.Scan(&e.ID, &e.CompanyID, &e.Number, &e.Date, &e.Memo, &e.Status, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
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

func (r *txRepository) InsertEntry(ctx context.Context, in PostingInput) (JournalEntry, error) {
	// number is claimed per company; the unique constraint rejects races.
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, number, date, memo, status)
VALUES ($1, (SELECT COALESCE(MAX(number),0)+1 FROM journal_entries WHERE company_id=$1), $2, $3, 'POSTED')
RETURNING id, number, created_at, updated_at`, in.CompanyID, in.Date, in.Memo)
	var entry JournalEntry
	entry.CompanyID = in.CompanyID
	entry.Date = in.Date
	entry.Memo = in.Memo
	entry.Status = EntryStatusPosted
	if err := row.Scan(&entry.ID, &entry.Number, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit, memo)
VALUES ($1,$2,$3,$4,$5)`, entryID, line.AccountID, toNumeric(line.Debit), toNumeric(line.Credit), line.Memo); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error) {
	var entry JournalEntry
	err := r.tx.QueryRow(ctx, `SELECT id, company_id, number, date, memo, status, created_at, updated_at
FROM journal_entries WHERE id=$1`, entryID).
		Scan(&entry.ID, &entry.CompanyID, &entry.Number, &entry.Date, &entry.Memo, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, nil, shared.ErrJournalNotFound
		}
		return JournalEntry{}, nil, err
	}
	rows, err := r.tx.Query(ctx, `SELECT id, entry_id, account_id, debit::text, credit::text, memo, created_at, updated_at
FROM journal_lines WHERE entry_id=$1 ORDER BY id ASC`, entryID)
	if err != nil {
		return JournalEntry{}, nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		var debit, credit string
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &debit, &credit, &line.Memo, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return JournalEntry{}, nil, err
		}
		if line.Debit, err = decimal.NewFromString(debit); err != nil {
			return JournalEntry{}, nil, err
		}
		if line.Credit, err = decimal.NewFromString(credit); err != nil {
			return JournalEntry{}, nil, err
		}
		lines = append(lines, line)
	}
	return entry, lines, rows.Err()
}

func (r *txRepository) UpdateEntryHeader(ctx context.Context, entryID int64, date time.Time, memo string) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET date=$2, memo=$3, updated_at=NOW() WHERE id=$1`, entryID, date, memo)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrJournalNotFound
	}
	return nil
}

func (r *txRepository) DeleteLines(ctx context.Context, entryID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, entryID)
	return err
}

func (r *txRepository) DeleteEntry(ctx context.Context, entryID int64) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE id=$1`, entryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrJournalNotFound
	}
	return nil
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

func (r *txRepository) CountOwningDocuments(ctx context.Context, entryID int64) (int64, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE journal_entry_id=$1`, entryID).Scan(&n)
	return n, err
}

func toNumeric(d decimal.Decimal) string {
	return d.StringFixed(2)
}
