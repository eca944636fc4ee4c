package identity

import (
	"context"
	"time"
)

type IdentityRepository interface {
	Create(ctx context.Context, ident *Identity) error
	Delete(ctx context.Context, identityID string) error
	ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error)
	ExistingIdentifiers(ctx context.Context, identifiers []string) (map[string]struct{}, error)
	MarkEmailSent(ctx context.Context, identityID string) error
}

type LedgerRepository interface {
	Open(ctx context.Context, entry *LedgerEntry) error
	AppendOutcome(ctx context.Context, entryID string, outcome RowOutcome) error
	Finalize(ctx context.Context, entry *LedgerEntry) error
	GetByID(ctx context.Context, entryID string) (*LedgerEntry, error)
	ListRecent(ctx context.Context, limit int) ([]LedgerEntry, error)
	Rollback(ctx context.Context, entryID, actor, reason string) (int64, error)
	MarkStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error)
}

// IdentifierAllocator issues strictly increasing sequence values per counter
// key. Reserve claims a contiguous block of n values in one atomic step and
// returns the first; Next is Reserve with n = 1.
type IdentifierAllocator interface {
	Next(ctx context.Context, key string) (int64, error)
	Reserve(ctx context.Context, key string, n int64) (int64, error)
}

type ReferenceDataProvider interface {
	Snapshot(ctx context.Context) (ReferenceData, error)
}

// Notifier delivers the welcome notification for a created identity. Its
// failures never feed back into row outcomes.
type Notifier interface {
	NotifyNewIdentity(ctx context.Context, ident Identity, credential string) error
}
