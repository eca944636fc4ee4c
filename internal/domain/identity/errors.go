package identity

import "errors"

var (
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrRollbackConflict    = errors.New("batch is not available for rollback")
)
