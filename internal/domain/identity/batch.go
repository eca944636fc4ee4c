package identity

import "time"

// BatchRow is one untrusted candidate record as submitted. Rows are never
// mutated after submission; each maps to exactly one RowOutcome.
type BatchRow struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Role        string `json:"role,omitempty"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	EmployeeID  string `json:"employee_id,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type RowStatus string

const (
	RowSuccess RowStatus = "success"
	RowWarning RowStatus = "warning"
	RowFailure RowStatus = "failure"
)

// RowOutcome is the per-record result within a batch. RowIndex is 1-based
// and carried explicitly so reporting does not depend on slice position.
type RowOutcome struct {
	RowIndex   int
	Status     RowStatus
	IdentityID string
	Identifier string
	Input      BatchRow
	Errors     []string
	Warnings   []string
}

type BatchStatus string

const (
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// LedgerEntry is the durable audit record of one batch submission. It is
// opened before row processing, mutated as rows complete, finalized once,
// and never deleted; rollback only marks it.
type LedgerEntry struct {
	ID           string
	Origin       string
	Kind         BatchKind
	Actor        string
	Status       BatchStatus
	TotalRecords int
	SuccessCount int
	FailureCount int
	WarningCount int
	StartedAt    time.Time
	FinishedAt   time.Time
	DurationMs   int64

	RollbackAvailable bool
	RolledBackBy      string
	RolledBackAt      *time.Time
	RolledBackReason  string
	RolledBackCount   int64

	Outcomes []RowOutcome
}

// Tally derives the aggregate counts from the recorded outcomes. Counts are
// never incremented independently so they cannot drift from the row list.
func (e *LedgerEntry) Tally() {
	e.TotalRecords = len(e.Outcomes)
	e.SuccessCount = 0
	e.FailureCount = 0
	e.WarningCount = 0
	for _, o := range e.Outcomes {
		switch o.Status {
		case RowSuccess:
			e.SuccessCount++
		case RowWarning:
			e.WarningCount++
		case RowFailure:
			e.FailureCount++
		}
	}
}

// CreatedIdentityIDs returns the exact list of identities this batch
// created, in row order. Rollback deletes by this list, never by filter.
func (e *LedgerEntry) CreatedIdentityIDs() []string {
	ids := make([]string, 0, e.SuccessCount+e.WarningCount)
	for _, o := range e.Outcomes {
		if o.IdentityID != "" {
			ids = append(ids, o.IdentityID)
		}
	}
	return ids
}
