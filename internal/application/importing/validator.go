package importing

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

const minEmployeeIDLength = 4

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ExistingSets holds the pre-existing lookups a batch is vetted against,
// snapshotted once before row processing starts.
type ExistingSets struct {
	Emails      map[string]struct{}
	Identifiers map[string]struct{}
}

// ValidateRow vets one candidate row. All errors are collected in one pass;
// warnings never block creation. acceptedEmails is the growing set of emails
// already accepted earlier in the same batch, which makes validation
// order-dependent: a row can fail because of an earlier row.
func ValidateRow(index int, row domain.BatchRow, ref domain.ReferenceData, existing ExistingSets, acceptedEmails map[string]struct{}) domain.RowOutcome {
	outcome := domain.RowOutcome{
		RowIndex: index,
		Input:    row,
	}

	firstName := strings.TrimSpace(row.FirstName)
	lastName := strings.TrimSpace(row.LastName)
	email := strings.ToLower(strings.TrimSpace(row.Email))

	if firstName == "" {
		outcome.Errors = append(outcome.Errors, "first name is required")
	}
	if lastName == "" {
		outcome.Errors = append(outcome.Errors, "last name is required")
	}

	if email == "" {
		outcome.Errors = append(outcome.Errors, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		outcome.Errors = append(outcome.Errors, "invalid email format")
	}

	if code := strings.TrimSpace(row.Department); code != "" && !ref.HasDepartment(code) {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf(
			"invalid department code %q, valid codes: %s", code, strings.Join(ref.DepartmentCodes(), ", ")))
	}

	if role := strings.TrimSpace(row.Role); role != "" && !domain.ValidRole(domain.Role(role)) {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("invalid role %q", role))
	}

	if phone := strings.TrimSpace(row.Phone); phone != "" && !phonePattern.MatchString(phone) {
		outcome.Warnings = append(outcome.Warnings, "phone number should be exactly 10 digits")
	}
	if employeeID := strings.TrimSpace(row.EmployeeID); employeeID != "" && len(employeeID) < minEmployeeIDLength {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("employee id shorter than %d characters", minEmployeeIDLength))
	}

	if email != "" {
		if _, ok := existing.Emails[email]; ok {
			outcome.Errors = append(outcome.Errors, "email already exists")
		} else if _, ok := acceptedEmails[email]; ok {
			outcome.Errors = append(outcome.Errors, "email already exists: duplicate within batch")
		}
	}
	if employeeID := strings.TrimSpace(row.EmployeeID); employeeID != "" {
		if _, ok := existing.Identifiers[employeeID]; ok {
			outcome.Errors = append(outcome.Errors, "employee id collides with an existing identifier")
		}
	}

	switch {
	case len(outcome.Errors) > 0:
		outcome.Status = domain.RowFailure
	case len(outcome.Warnings) > 0:
		outcome.Status = domain.RowWarning
	default:
		outcome.Status = domain.RowSuccess
	}

	return outcome
}
