package importing

import "errors"

var (
	ErrMissingActor     = errors.New("actor is required")
	ErrMissingReason    = errors.New("rollback reason is required")
	ErrEmptyBatch       = errors.New("batch contains no rows")
	ErrBatchTooLarge    = errors.New("batch exceeds the maximum size")
	ErrInvalidBatchKind = errors.New("invalid batch kind")
	ErrInvalidBatchID   = errors.New("invalid batch id")
	ErrBatchSetup       = errors.New("failed to set up batch")
	ErrFinalizeBatch    = errors.New("failed to finalize batch")
	ErrBatchNotFound    = errors.New("batch not found")
	ErrRollbackConflict = errors.New("batch already rolled back or has nothing to roll back")
	ErrRollbackBatch    = errors.New("failed to roll back batch")
	ErrListBatches      = errors.New("failed to list batches")
	ErrGetBatch         = errors.New("failed to get batch")
)
