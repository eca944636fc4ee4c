package importing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

type SubmitBatchInput struct {
	Origin string
	Kind   string
	Actor  string
	Rows   []domain.BatchRow
}

type RowResult struct {
	RowIndex   int             `json:"row_index"`
	Status     string          `json:"status"`
	IdentityID string          `json:"identity_id,omitempty"`
	Identifier string          `json:"identifier,omitempty"`
	Input      domain.BatchRow `json:"input"`
	Errors     []string        `json:"errors,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
}

type SubmitBatchOutput struct {
	BatchID           string      `json:"batch_id"`
	Status            string      `json:"status"`
	TotalProcessed    int         `json:"total_processed"`
	SuccessCount      int         `json:"success_count"`
	FailureCount      int         `json:"failure_count"`
	WarningCount      int         `json:"warning_count"`
	DurationMs        int64       `json:"duration_ms"`
	RollbackAvailable bool        `json:"rollback_available"`
	Rows              []RowResult `json:"rows"`
}

type SubmitBatch interface {
	Execute(ctx context.Context, in SubmitBatchInput) (SubmitBatchOutput, error)
}

// notificationEnqueuer decouples the executor from notification delivery:
// enqueueing never blocks row processing and delivery failures never feed
// back into row outcomes.
type notificationEnqueuer interface {
	Enqueue(ident domain.Identity, credential string)
}

type SubmitBatchConfig struct {
	MaxBatchSize int
}

type submitBatch struct {
	identities domain.IdentityRepository
	ledger     domain.LedgerRepository
	allocator  domain.IdentifierAllocator
	reference  domain.ReferenceDataProvider
	queue      notificationEnqueuer
	collector  metrics.Recorder
	cfg        SubmitBatchConfig
}

func NewSubmitBatch(
	identities domain.IdentityRepository,
	ledger domain.LedgerRepository,
	allocator domain.IdentifierAllocator,
	reference domain.ReferenceDataProvider,
	queue notificationEnqueuer,
	collector metrics.Recorder,
	cfg SubmitBatchConfig,
) SubmitBatch {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 1000
	}
	return &submitBatch{
		identities: identities,
		ledger:     ledger,
		allocator:  allocator,
		reference:  reference,
		queue:      queue,
		collector:  collector,
		cfg:        cfg,
	}
}

type createdIdentity struct {
	identity   domain.Identity
	credential string
}

func (uc *submitBatch) Execute(ctx context.Context, in SubmitBatchInput) (SubmitBatchOutput, error) {
	actor := strings.TrimSpace(in.Actor)
	if actor == "" {
		return SubmitBatchOutput{}, ErrMissingActor
	}
	kind := domain.BatchKind(strings.TrimSpace(in.Kind))
	if !kind.Valid() {
		return SubmitBatchOutput{}, fmt.Errorf("%w: %q", ErrInvalidBatchKind, in.Kind)
	}
	if len(in.Rows) == 0 {
		return SubmitBatchOutput{}, ErrEmptyBatch
	}
	if len(in.Rows) > uc.cfg.MaxBatchSize {
		return SubmitBatchOutput{}, fmt.Errorf("%w: %d rows, limit is %d", ErrBatchTooLarge, len(in.Rows), uc.cfg.MaxBatchSize)
	}

	ref, err := uc.reference.Snapshot(ctx)
	if err != nil {
		return SubmitBatchOutput{}, fmt.Errorf("%w: snapshot reference data: %v", ErrBatchSetup, err)
	}
	existing, err := uc.snapshotExisting(ctx, in.Rows)
	if err != nil {
		return SubmitBatchOutput{}, fmt.Errorf("%w: snapshot existing identities: %v", ErrBatchSetup, err)
	}

	origin := strings.TrimSpace(in.Origin)
	if origin == "" {
		origin = "api"
	}

	entry := &domain.LedgerEntry{
		ID:           uuid.NewString(),
		Origin:       origin,
		Kind:         kind,
		Actor:        actor,
		Status:       domain.BatchProcessing,
		TotalRecords: len(in.Rows),
		StartedAt:    time.Now().UTC(),
	}
	if err := uc.ledger.Open(ctx, entry); err != nil {
		return SubmitBatchOutput{}, fmt.Errorf("%w: open ledger entry: %v", ErrBatchSetup, err)
	}

	counterKey := domain.CounterKey(entry.StartedAt.Year(), kind)

	// Rows run sequentially in submission order so within-batch duplicate
	// detection and row-index reporting stay deterministic.
	accepted := make(map[string]struct{}, len(in.Rows))
	created := make([]createdIdentity, 0, len(in.Rows))
	ledgerDiverged := false
	for i, row := range in.Rows {
		outcome := ValidateRow(i+1, row, ref, existing, accepted)

		if outcome.Status != domain.RowFailure {
			ident, credential, createErr := uc.createIdentity(ctx, counterKey, kind, row, ref, actor)
			if createErr != nil {
				// Per-row failure isolation: a storage or allocator error on
				// this row never aborts the remaining rows.
				outcome.Status = domain.RowFailure
				outcome.Errors = append(outcome.Errors, createErr.Error())
			} else {
				outcome.IdentityID = ident.ID
				outcome.Identifier = ident.Identifier
				accepted[ident.Email] = struct{}{}
				created = append(created, createdIdentity{identity: ident, credential: credential})
			}
		}

		if err := uc.ledger.AppendOutcome(ctx, entry.ID, outcome); err != nil {
			log.Printf("append outcome for batch %s row %d failed: %v", entry.ID, outcome.RowIndex, err)
			if outcome.IdentityID != "" {
				// Rollback deletes by the recorded row list, so an identity
				// whose creation was not recorded must not stand.
				outcome = uc.undoUnrecordedCreation(ctx, entry.ID, outcome, err)
				if outcome.IdentityID == "" {
					delete(accepted, created[len(created)-1].identity.Email)
					created = created[:len(created)-1]
				} else {
					// The undo itself failed: the identity exists off the
					// record, so list-based rollback can no longer be exact.
					ledgerDiverged = true
				}
			}
		}
		entry.Outcomes = append(entry.Outcomes, outcome)
	}

	entry.Tally()
	entry.Status = domain.BatchCompleted
	entry.FinishedAt = time.Now().UTC()
	entry.DurationMs = entry.FinishedAt.Sub(entry.StartedAt).Milliseconds()
	entry.RollbackAvailable = len(created) > 0 && !ledgerDiverged

	if err := uc.ledger.Finalize(ctx, entry); err != nil {
		return SubmitBatchOutput{}, fmt.Errorf("%w: %v", ErrFinalizeBatch, err)
	}

	for _, c := range created {
		uc.queue.Enqueue(c.identity, c.credential)
	}

	uc.collector.RecordBatch(string(entry.Status), entry.FinishedAt.Sub(entry.StartedAt))
	uc.collector.RecordRows(string(domain.RowSuccess), entry.SuccessCount)
	uc.collector.RecordRows(string(domain.RowWarning), entry.WarningCount)
	uc.collector.RecordRows(string(domain.RowFailure), entry.FailureCount)

	return toSubmitOutput(entry), nil
}

// undoUnrecordedCreation deletes an identity whose row outcome could not be
// appended and converts the row to a failure with the append error preserved.
// If the delete fails too, the outcome is returned unchanged and the caller
// must withdraw rollback availability.
func (uc *submitBatch) undoUnrecordedCreation(ctx context.Context, entryID string, outcome domain.RowOutcome, appendErr error) domain.RowOutcome {
	if err := uc.identities.Delete(ctx, outcome.IdentityID); err != nil {
		log.Printf("undo unrecorded identity %s for batch %s failed: %v", outcome.IdentityID, entryID, err)
		return outcome
	}

	outcome.Status = domain.RowFailure
	outcome.IdentityID = ""
	outcome.Identifier = ""
	outcome.Errors = append(outcome.Errors, fmt.Sprintf("record row outcome: %v", appendErr))
	if err := uc.ledger.AppendOutcome(ctx, entryID, outcome); err != nil {
		log.Printf("append outcome for batch %s row %d failed: %v", entryID, outcome.RowIndex, err)
	}
	return outcome
}

// snapshotExisting loads the duplicate-detection sets for exactly the emails
// and employee ids this batch mentions.
func (uc *submitBatch) snapshotExisting(ctx context.Context, rows []domain.BatchRow) (ExistingSets, error) {
	emails := make([]string, 0, len(rows))
	identifiers := make([]string, 0, len(rows))
	for _, row := range rows {
		if email := strings.ToLower(strings.TrimSpace(row.Email)); email != "" {
			emails = append(emails, email)
		}
		if employeeID := strings.TrimSpace(row.EmployeeID); employeeID != "" {
			identifiers = append(identifiers, employeeID)
		}
	}

	existingEmails, err := uc.identities.ExistingEmails(ctx, emails)
	if err != nil {
		return ExistingSets{}, err
	}
	existingIdentifiers, err := uc.identities.ExistingIdentifiers(ctx, identifiers)
	if err != nil {
		return ExistingSets{}, err
	}

	return ExistingSets{Emails: existingEmails, Identifiers: existingIdentifiers}, nil
}

func (uc *submitBatch) createIdentity(ctx context.Context, counterKey string, kind domain.BatchKind, row domain.BatchRow, ref domain.ReferenceData, actor string) (domain.Identity, string, error) {
	seq, err := uc.allocator.Next(ctx, counterKey)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("allocate identifier: %v", err)
	}

	credential, err := GenerateCredential()
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("generate credential: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("hash credential: %v", err)
	}

	role := domain.Role(strings.TrimSpace(row.Role))
	if role == "" {
		role = kind.DefaultRole()
	}

	var departmentID *int64
	if code := strings.TrimSpace(row.Department); code != "" {
		if id, ok := ref.DepartmentID(code); ok {
			departmentID = &id
		}
	}

	ident := domain.Identity{
		ID:             uuid.NewString(),
		FirstName:      strings.TrimSpace(row.FirstName),
		LastName:       strings.TrimSpace(row.LastName),
		Email:          strings.ToLower(strings.TrimSpace(row.Email)),
		Identifier:     domain.FormatIdentifier(counterKey, seq),
		Role:           role,
		DepartmentID:   departmentID,
		Designation:    strings.TrimSpace(row.Designation),
		EmployeeID:     strings.TrimSpace(row.EmployeeID),
		Phone:          strings.TrimSpace(row.Phone),
		CredentialHash: string(hash),
		IsFirstLogin:   true,
		CreatedBy:      actor,
	}

	if err := uc.identities.Create(ctx, &ident); err != nil {
		return domain.Identity{}, "", fmt.Errorf("create identity: %v", err)
	}

	return ident, credential, nil
}

func toSubmitOutput(entry *domain.LedgerEntry) SubmitBatchOutput {
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

	return SubmitBatchOutput{
		BatchID:           entry.ID,
		Status:            string(entry.Status),
		TotalProcessed:    entry.TotalRecords,
		SuccessCount:      entry.SuccessCount,
		FailureCount:      entry.FailureCount,
		WarningCount:      entry.WarningCount,
		DurationMs:        entry.DurationMs,
		RollbackAvailable: entry.RollbackAvailable,
		Rows:              rows,
	}
}
