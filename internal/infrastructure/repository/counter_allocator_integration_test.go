package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placementhq/identity-import/internal/infrastructure/repository"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	createSQL := `
    CREATE TABLE IF NOT EXISTS identifier_counters (
      prefix VARCHAR(16) PRIMARY KEY,
      last_value BIGINT NOT NULL DEFAULT 0,
      updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    `
	if _, err := pool.Exec(context.Background(), createSQL); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return pool
}

func TestCounterAllocatorConcurrentBatchesIntegration(t *testing.T) {
	pool := newTestPool(t)
	prefix := fmt.Sprintf("T%d", os.Getpid()%10000)
	if _, err := pool.Exec(context.Background(), "DELETE FROM identifier_counters WHERE prefix = $1", prefix); err != nil {
		t.Fatalf("failed to cleanup counter: %v", err)
	}

	allocator := repository.NewCounterAllocator(pool)

	const perBatch = 25
	values := make(chan int64, 2*perBatch)

	var wg sync.WaitGroup
	for b := 0; b < 2; b++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perBatch; i++ {
				seq, err := allocator.Next(context.Background(), prefix)
				if err != nil {
					t.Errorf("next failed: %v", err)
					return
				}
				values <- seq
			}
		}()
	}
	wg.Wait()
	close(values)

	seen := map[int64]struct{}{}
	var max int64
	for v := range values {
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate sequence value: %d", v)
		}
		seen[v] = struct{}{}
		if v > max {
			max = v
		}
	}

	if len(seen) != 2*perBatch {
		t.Fatalf("expected %d distinct values, got %d", 2*perBatch, len(seen))
	}
	if max != 2*perBatch {
		t.Fatalf("expected contiguous sequence up to %d, got max %d", 2*perBatch, max)
	}
}

func TestCounterAllocatorReserveBlockIntegration(t *testing.T) {
	pool := newTestPool(t)
	prefix := fmt.Sprintf("B%d", os.Getpid()%10000)
	if _, err := pool.Exec(context.Background(), "DELETE FROM identifier_counters WHERE prefix = $1", prefix); err != nil {
		t.Fatalf("failed to cleanup counter: %v", err)
	}

	allocator := repository.NewCounterAllocator(pool)

	first, err := allocator.Reserve(context.Background(), prefix, 5)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected block to start at 1, got %d", first)
	}

	next, err := allocator.Next(context.Background(), prefix)
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if next != 6 {
		t.Fatalf("expected 6 after a block of 5, got %d", next)
	}

	if _, err := allocator.Reserve(context.Background(), prefix, 0); err == nil {
		t.Fatal("expected error for non-positive block size")
	}
}
