package identity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent     Role = "student"
	RoleStaff       Role = "staff"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleStaff, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

type BatchKind string

const (
	KindStudent BatchKind = "student"
	KindStaff   BatchKind = "staff"
)

func (k BatchKind) Valid() bool {
	return k == KindStudent || k == KindStaff
}

// DefaultRole is the role assigned to rows that do not carry one.
func (k BatchKind) DefaultRole() Role {
	if k == KindStaff {
		return RoleStaff
	}
	return RoleStudent
}

func (k BatchKind) IdentifierPrefix() string {
	if k == KindStaff {
		return "STF"
	}
	return "STU"
}

// CounterKey builds the allocator key for one identifier sequence,
// e.g. year 2026 + student kind -> "2026STU".
func CounterKey(year int, kind BatchKind) string {
	return fmt.Sprintf("%d%s", year, kind.IdentifierPrefix())
}

// FormatIdentifier renders a sequence value under a counter key as the
// human-readable identifier, e.g. ("2026STU", 7) -> "2026STU007".
func FormatIdentifier(key string, seq int64) string {
	return fmt.Sprintf("%s%03d", key, seq)
}

// Identity is a created account. Email is stored lowercased and is unique
// together with the generated identifier.
type Identity struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Identifier     string
	Role           Role
	DepartmentID   *int64
	Designation    string
	EmployeeID     string
	Phone          string
	CredentialHash string
	IsFirstLogin   bool
	EmailSent      bool
	CreatedBy      string
	CreatedAt      time.Time
}
