package repository

import (
	"context"
	"fmt"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, ident *domain.Identity) error {
	row := models.Identity{
		ID:             ident.ID,
		FirstName:      ident.FirstName,
		LastName:       ident.LastName,
		Email:          ident.Email,
		Identifier:     ident.Identifier,
		Role:           string(ident.Role),
		DepartmentID:   ident.DepartmentID,
		Designation:    ident.Designation,
		EmployeeID:     ident.EmployeeID,
		Phone:          ident.Phone,
		CredentialHash: ident.CredentialHash,
		IsFirstLogin:   ident.IsFirstLogin,
		EmailSent:      ident.EmailSent,
		CreatedBy:      ident.CreatedBy,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	ident.CreatedAt = row.CreatedAt
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, identityID string) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", identityID).
		Delete(&models.Identity{}).Error
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(emails))
	if len(emails) == 0 {
		return found, nil
	}

	var matched []string
	err := r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("email IN ?", emails).
		Pluck("email", &matched).Error
	if err != nil {
		return nil, fmt.Errorf("lookup existing emails: %w", err)
	}

	for _, email := range matched {
		found[email] = struct{}{}
	}
	return found, nil
}

func (r *IdentityRepository) ExistingIdentifiers(ctx context.Context, identifiers []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(identifiers))
	if len(identifiers) == 0 {
		return found, nil
	}

	var matched []string
	err := r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("identifier IN ?", identifiers).
		Pluck("identifier", &matched).Error
	if err != nil {
		return nil, fmt.Errorf("lookup existing identifiers: %w", err)
	}
	for _, id := range matched {
		found[id] = struct{}{}
	}

	matched = matched[:0]
	err = r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("employee_id IN ?", identifiers).
		Pluck("employee_id", &matched).Error
	if err != nil {
		return nil, fmt.Errorf("lookup existing employee ids: %w", err)
	}
	for _, id := range matched {
		found[id] = struct{}{}
	}

	return found, nil
}

func (r *IdentityRepository) MarkEmailSent(ctx context.Context, identityID string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", identityID).
		Update("email_sent", true).Error
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}
