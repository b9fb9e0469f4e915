package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

// LookupRepository serves the small read-only reference tables the lead
// engine validates against.
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) GetCategory(ctx context.Context, tenantID, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *LookupRepository) GetInterest(ctx context.Context, tenantID, id int64) (*domain.Interest, error) {
	var i domain.Interest
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}
