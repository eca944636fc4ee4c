package importing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

var batchIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

type GetBatchInput struct {
	BatchID string
}

type BatchRollbackInfo struct {
	Actor        string     `json:"actor"`
	At           *time.Time `json:"at"`
	Reason       string     `json:"reason"`
	DeletedCount int64      `json:"deleted_count"`
}

type GetBatchOutput struct {
	BatchID           string             `json:"batch_id"`
	Origin            string             `json:"origin"`
	Kind              string             `json:"kind"`
	Actor             string             `json:"actor"`
	Status            string             `json:"status"`
	TotalRecords      int                `json:"total_records"`
	SuccessCount      int                `json:"success_count"`
	FailureCount      int                `json:"failure_count"`
	WarningCount      int                `json:"warning_count"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        *time.Time         `json:"finished_at,omitempty"`
	DurationMs        int64              `json:"duration_ms"`
	RollbackAvailable bool               `json:"rollback_available"`
	Rollback          *BatchRollbackInfo `json:"rollback,omitempty"`
	Rows              []RowResult        `json:"rows"`
}

type GetBatch interface {
	Execute(ctx context.Context, in GetBatchInput) (GetBatchOutput, error)
}

type getBatch struct {
	ledger domain.LedgerRepository
}

func NewGetBatch(ledger domain.LedgerRepository) GetBatch {
	return &getBatch{ledger: ledger}
}

func (uc *getBatch) Execute(ctx context.Context, in GetBatchInput) (GetBatchOutput, error) {
	if !batchIDPattern.MatchString(in.BatchID) {
		return GetBatchOutput{}, ErrInvalidBatchID
	}

	entry, err := uc.ledger.GetByID(ctx, in.BatchID)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerEntryNotFound) {
			return GetBatchOutput{}, ErrBatchNotFound
		}
		return GetBatchOutput{}, fmt.Errorf("%w: %v", ErrGetBatch, err)
	}

	rows := make([]RowResult, 0, len(entry.Outcomes))
	for _, o := range entry.Outcomes {
		rows = append(rows, RowResult{
			RowIndex:   o.RowIndex,
			Status:     string(o.Status),
			IdentityID: o.IdentityID,
			Identifier: o.Identifier,
			Input:      o.Input,
			Errors:     o.Errors,
			Warnings:   o.Warnings,
		})
	}

	out := GetBatchOutput{
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
		Rows:              rows,
	}
	if !entry.FinishedAt.IsZero() {
		finished := entry.FinishedAt
		out.FinishedAt = &finished
	}
	if entry.RolledBackAt != nil {
		out.Rollback = &BatchRollbackInfo{
			Actor:        entry.RolledBackBy,
			At:           entry.RolledBackAt,
			Reason:       entry.RolledBackReason,
			DeletedCount: entry.RolledBackCount,
		}
	}

	return out, nil
}
