package importing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/metrics"
)

type RollbackBatchInput struct {
	BatchID string
	Actor   string
	Reason  string
}

type RollbackBatchOutput struct {
	BatchID      string `json:"batch_id"`
	DeletedCount int64  `json:"deleted_count"`
	Status       string `json:"status"`
}

type RollbackBatch interface {
	Execute(ctx context.Context, in RollbackBatchInput) (RollbackBatchOutput, error)
}

type batchRollbacker interface {
	Rollback(ctx context.Context, entryID, actor, reason string) (int64, error)
}

type rollbackBatch struct {
	ledger    batchRollbacker
	collector metrics.Recorder
}

func NewRollbackBatch(ledger batchRollbacker, collector metrics.Recorder) RollbackBatch {
	return &rollbackBatch{ledger: ledger, collector: collector}
}

func (uc *rollbackBatch) Execute(ctx context.Context, in RollbackBatchInput) (RollbackBatchOutput, error) {
	if !batchIDPattern.MatchString(in.BatchID) {
		return RollbackBatchOutput{}, ErrInvalidBatchID
	}
	actor := strings.TrimSpace(in.Actor)
	if actor == "" {
		return RollbackBatchOutput{}, ErrMissingActor
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return RollbackBatchOutput{}, ErrMissingReason
	}

	deleted, err := uc.ledger.Rollback(ctx, in.BatchID, actor, reason)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerEntryNotFound) {
			return RollbackBatchOutput{}, ErrBatchNotFound
		}
		if errors.Is(err, domain.ErrRollbackConflict) {
			return RollbackBatchOutput{}, ErrRollbackConflict
		}
		return RollbackBatchOutput{}, fmt.Errorf("%w: %v", ErrRollbackBatch, err)
	}

	uc.collector.RecordRollback(deleted)

	return RollbackBatchOutput{
		BatchID:      in.BatchID,
		DeletedCount: deleted,
		Status:       "rolled_back",
	}, nil
}
