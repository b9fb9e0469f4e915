package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// GetByIDs returns the employees found for the given ids, in-tenant.
// Callers compare lengths to detect missing ones.
func (r *EmployeeRepository) GetByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.Employee, error) {
	var emps []domain.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&emps).Error
	return emps, err
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, tenantID, userID int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}
