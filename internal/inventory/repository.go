package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound indicates a missing product.
var ErrProductNotFound = errors.New("inventory: product not found")

type Repository interface {
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, companyID int64) ([]Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, company_id, sku, name, is_good, track_inventory, quantity_on_hand::text, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE company_id=$1 ORDER BY sku`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var qty string
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.IsGood, &p.TrackInventory, &qty, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if p.QuantityOnHand, err = decimal.NewFromString(qty); err != nil {
		return Product{}, err
	}
	return p, nil
}
