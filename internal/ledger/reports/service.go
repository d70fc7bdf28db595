package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// beginningOfTime is the lower bound for cumulative balance queries.
var beginningOfTime = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Cache stores serialized report payloads with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Service produces financial reports. Results are cached and concurrent
// requests for the same report collapse into a single query.
type Service struct {
	repo   Repository
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs the reports service. Cache may be nil, in which
// case every request hits the database.
func NewService(logger *slog.Logger, repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// TrialBalance reports summed movements per account over the period.
func (s *Service) TrialBalance(ctx context.Context, companyID int64, from, to time.Time) ([]Row, error) {
	key := cacheKey("tb", companyID, from, to)
	return s.cached(ctx, key, func() ([]Row, error) {
		balances, err := s.repo.Balances(ctx, companyID, from, to)
		if err != nil {
			return nil, err
		}
		return BuildTrialBalance(balances), nil
	})
}

// IncomeStatement reports the period result by income, cost, and
// expense section.
func (s *Service) IncomeStatement(ctx context.Context, companyID int64, from, to time.Time) ([]Row, error) {
	key := cacheKey("pl", companyID, from, to)
	return s.cached(ctx, key, func() ([]Row, error) {
		balances, err := s.repo.Balances(ctx, companyID, from, to)
		if err != nil {
			return nil, err
		}
		return BuildIncomeStatement(balances), nil
	})
}

// BalanceSheet reports cumulative positions through the cutoff date,
// with the open period result folded into equity.
func (s *Service) BalanceSheet(ctx context.Context, companyID int64, asOf time.Time) ([]Row, error) {
	key := cacheKey("bs", companyID, beginningOfTime, asOf)
	return s.cached(ctx, key, func() ([]Row, error) {
		balances, err := s.repo.Balances(ctx, companyID, beginningOfTime, asOf)
		if err != nil {
			return nil, err
		}
		return BuildBalanceSheet(balances), nil
	})
}

// cached serves the report from cache when possible, otherwise builds
// it once per key regardless of how many requests arrive together.
func (s *Service) cached(ctx context.Context, key string, build func() ([]Row, error)) ([]Row, error) {
	if s.cache != nil {
		if payload, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("report cache read", slog.Any("error", err))
		} else if ok {
			var rows []Row
			if err := json.Unmarshal(payload, &rows); err == nil {
				return rows, nil
			}
		}
	}
	result, err, _ := s.group.Do(key, func() (any, error) {
		rows, err := build()
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if payload, err := json.Marshal(rows); err == nil {
				if err := s.cache.Set(ctx, key, payload); err != nil {
					s.logger.Warn("report cache write", slog.Any("error", err))
				}
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

func cacheKey(report string, companyID int64, from, to time.Time) string {
	return fmt.Sprintf("reports:%s:%d:%s:%s", report, companyID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
