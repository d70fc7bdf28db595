package taxes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (Tax, error)
	GetActive(ctx context.Context, companyID int64) (Tax, error)
	List(ctx context.Context, companyID int64) ([]Tax, error)
	GetRetentionConfig(ctx context.Context, companyID int64) (RetentionConfig, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const taxColumns = `id, company_id, code, name, rate::text, fiscal_debit_account_id, fiscal_credit_account_id, is_active, created_at, updated_at`

func scanTax(row pgx.Row) (Tax, error) {
	var t Tax
	var rate string
	err := row.Scan(&t.ID, &t.CompanyID, &t.Code, &t.Name, &rate, &t.FiscalDebitAccountID, &t.FiscalCreditAccountID, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tax{}, shared.ErrMissingTaxConfig
		}
		return Tax{}, err
	}
	if t.Rate, err = decimal.NewFromString(rate); err != nil {
		return Tax{}, err
	}
	return t, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Tax, error) {
	return scanTax(r.db.QueryRow(ctx, `SELECT `+taxColumns+` FROM taxes WHERE id=$1`, id))
}

// GetActive returns the company's active VAT configuration.
func (r *repository) GetActive(ctx context.Context, companyID int64) (Tax, error) {
	return scanTax(r.db.QueryRow(ctx, `SELECT `+taxColumns+` FROM taxes WHERE company_id=$1 AND is_active=TRUE ORDER BY id LIMIT 1`, companyID))
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Tax, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taxColumns+` FROM taxes WHERE company_id=$1 ORDER BY code`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tax
	for rows.Next() {
		t, err := scanTax(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) GetRetentionConfig(ctx context.Context, companyID int64) (RetentionConfig, error) {
	var c RetentionConfig
	err := r.db.QueryRow(ctx, `SELECT company_id, retention_iva_account_id, retention_islr_account_id, sales_account_id, purchase_account_id
FROM company_tax_config WHERE company_id=$1`, companyID).
		Scan(&c.CompanyID, &c.IVAAccountID, &c.ISLRAccountID, &c.SalesAccountID, &c.PurchaseAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RetentionConfig{}, shared.ErrMissingTaxConfig
		}
		return RetentionConfig{}, err
	}
	return c, nil
}
