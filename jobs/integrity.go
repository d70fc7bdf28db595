package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// IntegrityChecker verifies the double-entry invariant per company:
// every posted entry sums to equal debits and credits, and no entry
// has fewer than two lines.
type IntegrityChecker struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewIntegrityChecker constructs the checker.
func NewIntegrityChecker(db *pgxpool.Pool, logger *slog.Logger) *IntegrityChecker {
	return &IntegrityChecker{db: db, logger: logger}
}

// Handle processes TaskLedgerIntegrity tasks.
func (c *IntegrityChecker) Handle(ctx context.Context, t *asynq.Task) error {
	var payload IntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	companies := []int64{payload.CompanyID}
	if payload.CompanyID == 0 {
		var err error
		if companies, err = c.companyIDs(ctx); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, companyID := range companies {
		g.Go(func() error {
			return c.check(ctx, companyID)
		})
	}
	return g.Wait()
}

func (c *IntegrityChecker) companyIDs(ctx context.Context) ([]int64, error) {
	rows, err := c.db.Query(ctx, `SELECT id FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (c *IntegrityChecker) check(ctx context.Context, companyID int64) error {
	var debitText, creditText string
	err := c.db.QueryRow(ctx, `SELECT COALESCE(SUM(l.debit), 0)::text, COALESCE(SUM(l.credit), 0)::text
FROM journal_lines l
JOIN journal_entries e ON e.id = l.entry_id
WHERE e.company_id = $1 AND e.status = 'POSTED'`, companyID).Scan(&debitText, &creditText)
	if err != nil {
		return err
	}
	debit, err := decimal.NewFromString(debitText)
	if err != nil {
		return err
	}
	credit, err := decimal.NewFromString(creditText)
	if err != nil {
		return err
	}
	if !debit.Equal(credit) {
		c.logger.Error("ledger out of balance",
			slog.Int64("company_id", companyID),
			slog.String("debit", debit.String()),
			slog.String("credit", credit.String()))
		return fmt.Errorf("jobs: company %d ledger out of balance by %s", companyID, debit.Sub(credit))
	}

	var short int64
	err = c.db.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries e
WHERE e.company_id = $1
AND (SELECT COUNT(*) FROM journal_lines l WHERE l.entry_id = e.id) < 2`, companyID).Scan(&short)
	if err != nil {
		return err
	}
	if short > 0 {
		c.logger.Error("entries with fewer than two lines",
			slog.Int64("company_id", companyID), slog.Int64("count", short))
		return fmt.Errorf("jobs: company %d has %d malformed entries", companyID, short)
	}

	c.logger.Info("ledger integrity ok", slog.Int64("company_id", companyID))
	return nil
}
