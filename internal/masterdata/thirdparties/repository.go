package thirdparties

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (ThirdParty, error)
	List(ctx context.Context, companyID int64) ([]ThirdParty, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const thirdPartyColumns = `id, company_id, name, tax_id, kind, receivable_account_id, payable_account_id, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (ThirdParty, error) {
	var t ThirdParty
	err := r.db.QueryRow(ctx, `SELECT `+thirdPartyColumns+` FROM third_parties WHERE id=$1`, id).
		Scan(&t.ID, &t.CompanyID, &t.Name, &t.TaxID, &t.Kind, &t.ReceivableAccountID, &t.PayableAccountID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ThirdParty{}, shared.ErrThirdPartyNotFound
		}
		return ThirdParty{}, err
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, companyID int64) ([]ThirdParty, error) {
	rows, err := r.db.Query(ctx, `SELECT `+thirdPartyColumns+` FROM third_parties WHERE company_id=$1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ThirdParty
	for rows.Next() {
		var t ThirdParty
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.TaxID, &t.Kind, &t.ReceivableAccountID, &t.PayableAccountID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
