package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Open(ctx context.Context, entry *domain.LedgerEntry) error {
	row := models.ImportBatch{
		ID:           entry.ID,
		Origin:       entry.Origin,
		Kind:         string(entry.Kind),
		Actor:        entry.Actor,
		Status:       string(domain.BatchProcessing),
		TotalRecords: entry.TotalRecords,
		StartedAt:    entry.StartedAt,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("open ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) AppendOutcome(ctx context.Context, entryID string, outcome domain.RowOutcome) error {
	payload, err := json.Marshal(outcome.Input)
	if err != nil {
		return fmt.Errorf("marshal row payload: %w", err)
	}

	row := models.ImportBatchRow{
		BatchID:  entryID,
		RowIndex: outcome.RowIndex,
		Status:   string(outcome.Status),
		Payload:  payload,
		Errors:   marshalMessages(outcome.Errors),
		Warnings: marshalMessages(outcome.Warnings),
	}
	if outcome.IdentityID != "" {
		row.IdentityID = &outcome.IdentityID
	}
	if outcome.Identifier != "" {
		row.Identifier = &outcome.Identifier
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append row outcome: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Finalize(ctx context.Context, entry *domain.LedgerEntry) error {
	err := r.db.WithContext(ctx).
		Model(&models.ImportBatch{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"status":             string(entry.Status),
			"total_records":      entry.TotalRecords,
			"success_count":      entry.SuccessCount,
			"failure_count":      entry.FailureCount,
			"warning_count":      entry.WarningCount,
			"finished_at":        entry.FinishedAt,
			"duration_ms":        entry.DurationMs,
			"rollback_available": entry.RollbackAvailable,
		}).Error
	if err != nil {
		return fmt.Errorf("finalize ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	var row models.ImportBatch
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_index")
		}).
		First(&row, "id = ?", entryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLedgerEntryNotFound
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}

	return toDomainEntry(&row)
}

func (r *LedgerRepository) ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	var rows []models.ImportBatch
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	entries := make([]domain.LedgerEntry, 0, len(rows))
	for i := range rows {
		entry, err := toDomainEntry(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Rollback deletes every identity the batch recorded as created and marks
// the entry rolled back, all in one transaction. The conditional flag flip
// is the concurrency guard: of two concurrent calls only one sees
// rollback_available = true.
func (r *LedgerRepository) Rollback(ctx context.Context, entryID, actor, reason string) (int64, error) {
	var deleted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.ImportBatch
		if err := tx.Select("id").First(&row, "id = ?", entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLedgerEntryNotFound
			}
			return fmt.Errorf("load ledger entry: %w", err)
		}

		now := time.Now().UTC()
		res := tx.Model(&models.ImportBatch{}).
			Where("id = ? AND rollback_available = ?", entryID, true).
			Updates(map[string]any{
				"rollback_available": false,
				"rolled_back_by":     actor,
				"rolled_back_at":     now,
				"rolled_back_reason": reason,
			})
		if res.Error != nil {
			return fmt.Errorf("flip rollback flag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrRollbackConflict
		}

		// Delete by the recorded creation list, never by filter, so
		// identities created by other batches are untouched.
		var identityIDs []string
		err := tx.Model(&models.ImportBatchRow{}).
			Where("batch_id = ? AND identity_id IS NOT NULL", entryID).
			Pluck("identity_id", &identityIDs).Error
		if err != nil {
			return fmt.Errorf("collect created identity ids: %w", err)
		}

		if len(identityIDs) > 0 {
			del := tx.Where("id IN ?", identityIDs).Delete(&models.Identity{})
			if del.Error != nil {
				return fmt.Errorf("delete identities: %w", del.Error)
			}
			deleted = del.RowsAffected
		}

		err = tx.Model(&models.ImportBatch{}).
			Where("id = ?", entryID).
			Update("rolled_back_count", deleted).Error
		if err != nil {
			return fmt.Errorf("record deleted count: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (r *LedgerRepository) MarkStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res := r.db.WithContext(ctx).
		Model(&models.ImportBatch{}).
		Where("status = ? AND started_at < ?", string(domain.BatchProcessing), cutoff).
		Updates(map[string]any{
			"status":      string(domain.BatchFailed),
			"finished_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("mark stale batches: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toDomainEntry(row *models.ImportBatch) (*domain.LedgerEntry, error) {
	entry := &domain.LedgerEntry{
		ID:                row.ID,
		Origin:            row.Origin,
		Kind:              domain.BatchKind(row.Kind),
		Actor:             row.Actor,
		Status:            domain.BatchStatus(row.Status),
		TotalRecords:      row.TotalRecords,
		SuccessCount:      row.SuccessCount,
		FailureCount:      row.FailureCount,
		WarningCount:      row.WarningCount,
		StartedAt:         row.StartedAt,
		DurationMs:        row.DurationMs,
		RollbackAvailable: row.RollbackAvailable,
		RolledBackAt:      row.RolledBackAt,
		RolledBackCount:   row.RolledBackCount,
	}
	if row.FinishedAt != nil {
		entry.FinishedAt = *row.FinishedAt
	}
	if row.RolledBackBy != nil {
		entry.RolledBackBy = *row.RolledBackBy
	}
	if row.RolledBackReason != nil {
		entry.RolledBackReason = *row.RolledBackReason
	}

	for _, outcomeRow := range row.Rows {
		outcome := domain.RowOutcome{
			RowIndex: outcomeRow.RowIndex,
			Status:   domain.RowStatus(outcomeRow.Status),
		}
		if outcomeRow.IdentityID != nil {
			outcome.IdentityID = *outcomeRow.IdentityID
		}
		if outcomeRow.Identifier != nil {
			outcome.Identifier = *outcomeRow.Identifier
		}
		if len(outcomeRow.Payload) > 0 {
			if err := json.Unmarshal(outcomeRow.Payload, &outcome.Input); err != nil {
				return nil, fmt.Errorf("unmarshal row payload: %w", err)
			}
		}
		if err := unmarshalMessages(outcomeRow.Errors, &outcome.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal row errors: %w", err)
		}
		if err := unmarshalMessages(outcomeRow.Warnings, &outcome.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal row warnings: %w", err)
		}
		entry.Outcomes = append(entry.Outcomes, outcome)
	}

	return entry, nil
}

func marshalMessages(messages []string) json.RawMessage {
	if len(messages) == 0 {
		return json.RawMessage("[]")
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return json.RawMessage("[]")
	}
	return raw
}

func unmarshalMessages(raw json.RawMessage, out *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
