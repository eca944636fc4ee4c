package identity_test

import (
	"testing"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

func TestFormatIdentifier(t *testing.T) {
	t.Parallel()

	got := domain.FormatIdentifier("2026STU", 7)
	if got != "2026STU007" {
		t.Fatalf("unexpected identifier: %s", got)
	}

	got = domain.FormatIdentifier("2026STF", 1042)
	if got != "2026STF1042" {
		t.Fatalf("expected padding to grow past 999, got %s", got)
	}
}

func TestCounterKey(t *testing.T) {
	t.Parallel()

	if key := domain.CounterKey(2026, domain.KindStudent); key != "2026STU" {
		t.Fatalf("unexpected key: %s", key)
	}
	if key := domain.CounterKey(2026, domain.KindStaff); key != "2026STF" {
		t.Fatalf("unexpected key: %s", key)
	}
}

func TestLedgerEntryTally(t *testing.T) {
	t.Parallel()

	entry := domain.LedgerEntry{Outcomes: []domain.RowOutcome{
		{RowIndex: 1, Status: domain.RowSuccess, IdentityID: "id-1"},
		{RowIndex: 2, Status: domain.RowFailure},
		{RowIndex: 3, Status: domain.RowWarning, IdentityID: "id-3"},
		{RowIndex: 4, Status: domain.RowFailure},
	}}
	entry.Tally()

	if entry.TotalRecords != 4 {
		t.Fatalf("expected total=4, got %d", entry.TotalRecords)
	}
	if entry.SuccessCount != 1 || entry.WarningCount != 1 || entry.FailureCount != 2 {
		t.Fatalf("unexpected counts: %d/%d/%d", entry.SuccessCount, entry.WarningCount, entry.FailureCount)
	}
	if entry.TotalRecords != entry.SuccessCount+entry.WarningCount+entry.FailureCount {
		t.Fatal("counts do not add up to total")
	}

	ids := entry.CreatedIdentityIDs()
	if len(ids) != 2 || ids[0] != "id-1" || ids[1] != "id-3" {
		t.Fatalf("unexpected created ids: %v", ids)
	}
}

func TestValidRole(t *testing.T) {
	t.Parallel()

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleStaff, domain.RoleCoordinator, domain.RoleAdmin} {
		if !domain.ValidRole(role) {
			t.Fatalf("expected %s to be valid", role)
		}
	}
	if domain.ValidRole("superuser") {
		t.Fatal("expected superuser to be invalid")
	}
}
