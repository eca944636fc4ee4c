package repository

import (
	"context"
	"fmt"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Snapshot loads the active department registry once; a batch validates all
// of its rows against this single snapshot.
func (r *DepartmentRepository) Snapshot(ctx context.Context) (domain.ReferenceData, error) {
	var rows []models.Department
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&rows).Error
	if err != nil {
		return domain.ReferenceData{}, fmt.Errorf("load active departments: %w", err)
	}

	departments := make(map[string]int64, len(rows))
	for _, row := range rows {
		departments[row.Code] = row.ID
	}

	return domain.ReferenceData{Departments: departments}, nil
}
