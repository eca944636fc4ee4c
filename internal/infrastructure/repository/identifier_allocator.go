package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterAllocator issues identifier sequence values from a per-prefix
// counter row. The whole read-modify-write runs as one atomic upsert, so
// concurrent batches can never be handed the same value and the sequence is
// strictly increasing per prefix.
type CounterAllocator struct {
	pool *pgxpool.Pool
}

func NewCounterAllocator(pool *pgxpool.Pool) *CounterAllocator {
	return &CounterAllocator{pool: pool}
}

func (a *CounterAllocator) Next(ctx context.Context, key string) (int64, error) {
	return a.Reserve(ctx, key, 1)
}

// Reserve claims a contiguous block of n values and returns the first.
func (a *CounterAllocator) Reserve(ctx context.Context, key string, n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("reserve block size must be positive, got %d", n)
	}

	var last int64
	err := a.pool.QueryRow(ctx, `
INSERT INTO identifier_counters (prefix, last_value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (prefix) DO UPDATE
  SET last_value = identifier_counters.last_value + $2,
      updated_at = NOW()
RETURNING last_value
`, key, n).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("reserve identifier block for %s: %w", key, err)
	}

	return last - n + 1, nil
}
