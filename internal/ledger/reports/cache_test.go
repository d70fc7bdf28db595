package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	calls    int
	balances []AccountBalance
}

func (r *countingRepo) Balances(context.Context, int64, time.Time, time.Time) ([]AccountBalance, error) {
	r.calls++
	return r.balances, nil
}

type mapCache struct {
	store map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	payload, ok := c.store[key]
	return payload, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	c.store[key] = value
	return nil
}

func TestTrialBalanceServedFromCache(t *testing.T) {
	repo := &countingRepo{balances: testBalances()}
	cache := &mapCache{store: map[string][]byte{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, cache)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	first, err := svc.TrialBalance(context.Background(), 1, from, to)
	require.NoError(t, err)
	second, err := svc.TrialBalance(context.Background(), 1, from, to)
	require.NoError(t, err)

	require.Equal(t, 1, repo.calls)
	require.Equal(t, len(first), len(second))
	require.Len(t, cache.store, 1)
}

func TestReportsWorkWithoutCache(t *testing.T) {
	repo := &countingRepo{balances: testBalances()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, nil)

	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rows, err := svc.BalanceSheet(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	_, err = svc.BalanceSheet(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}
