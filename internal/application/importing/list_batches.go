package importing

import (
	"context"
	"fmt"
	"time"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ListBatchesInput struct {
	Limit int
}

type BatchSummary struct {
	BatchID           string    `json:"batch_id"`
	Origin            string    `json:"origin"`
	Kind              string    `json:"kind"`
	Actor             string    `json:"actor"`
	Status            string    `json:"status"`
	TotalRecords      int       `json:"total_records"`
	SuccessCount      int       `json:"success_count"`
	FailureCount      int       `json:"failure_count"`
	WarningCount      int       `json:"warning_count"`
	StartedAt         time.Time `json:"started_at"`
	DurationMs        int64     `json:"duration_ms"`
	RollbackAvailable bool      `json:"rollback_available"`
}

type ListBatchesOutput struct {
	Batches []BatchSummary `json:"batches"`
}

type ListBatches interface {
	Execute(ctx context.Context, in ListBatchesInput) (ListBatchesOutput, error)
}

type batchLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
}

type listBatches struct {
	ledger batchLister
}

func NewListBatches(ledger batchLister) ListBatches {
	return &listBatches{ledger: ledger}
}

func (uc *listBatches) Execute(ctx context.Context, in ListBatchesInput) (ListBatchesOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, err := uc.ledger.ListRecent(ctx, limit)
	if err != nil {
		return ListBatchesOutput{}, fmt.Errorf("%w: %v", ErrListBatches, err)
	}

	batches := make([]BatchSummary, 0, len(entries))
	for _, entry := range entries {
		batches = append(batches, BatchSummary{
			BatchID:           entry.ID,
			Origin:            entry.Origin,
			Kind:              string(entry.Kind),
			Actor:             entry.Actor,
			Status:            string(entry.Status),
			TotalRecords:      entry.TotalRecords,
			SuccessCount:      entry.SuccessCount,
			FailureCount:      entry.FailureCount,
			WarningCount:      entry.WarningCount,
			StartedAt:         entry.StartedAt,
			DurationMs:        entry.DurationMs,
			RollbackAvailable: entry.RollbackAvailable,
		})
	}

	return ListBatchesOutput{Batches: batches}, nil
}
