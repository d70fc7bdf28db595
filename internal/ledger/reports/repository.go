package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository sums posted journal movements per account.
type Repository interface {
	Balances(ctx context.Context, companyID int64, from, to time.Time) ([]AccountBalance, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository over a pgx pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Balances returns every account of the company with its summed posted
// movement inside [from, to]. Accounts without movement come back with
// zero sums so the builders can decide what to omit.
func (r *repository) Balances(ctx context.Context, companyID int64, from, to time.Time) ([]AccountBalance, error) {
	rows, err := r.db.Query(ctx, `SELECT a.id, a.code, a.name, a.type, a.parent_id,
COALESCE(SUM(m.debit), 0)::text, COALESCE(SUM(m.credit), 0)::text
FROM accounts a
LEFT JOIN (
	SELECT l.account_id, l.debit, l.credit, e.date
	FROM journal_lines l
	JOIN journal_entries e ON e.id = l.entry_id
	WHERE e.status = 'POSTED'
) m ON m.account_id = a.id AND m.date >= $2 AND m.date <= $3
WHERE a.company_id = $1
GROUP BY a.id, a.code, a.name, a.type, a.parent_id
ORDER BY a.code ASC`, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountBalance
	for rows.Next() {
		var b AccountBalance
		var debit, credit string
		if err := rows.Scan(&b.AccountID, &b.Code, &b.Name, &b.Type, &b.ParentID, &debit, &credit); err != nil {
			return nil, err
		}
		if b.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if b.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
