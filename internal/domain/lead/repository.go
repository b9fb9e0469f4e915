package lead

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles lead data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates lead repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new lead
func (r *Repository) Create(ctx context.Context, l *Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// GetByID retrieves a lead within a tenant; nil if absent
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*Lead, error) {
	var l Lead
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByIDForUpdate locks the lead row for the rest of the transaction.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tenantID, id int64) (*Lead, error) {
	var l Lead
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByConversation retrieves the lead derived from a conversation, if any
func (r *Repository) GetByConversation(ctx context.Context, tenantID, conversationID int64) (*Lead, error) {
	var l Lead
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND conversation_id = ?", tenantID, conversationID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns leads with optional status and campaign filters
func (r *Repository) List(ctx context.Context, tenantID int64, status *Status, campaignID *int64, limit, offset int) ([]Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&Lead{}).Where("tenant_id = ?", tenantID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if campaignID != nil {
		q = q.Where("campaign_id = ?", *campaignID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []Lead
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&leads).Error
	return leads, total, err
}

// ClaimMonitoring records employeeID as monitoring owner iff the lead is
// still unclaimed. The conditional update keeps the claim and the first
// mutation in one indivisible unit, so two racing "unclaimed" readers
// cannot both win.
func (r *Repository) ClaimMonitoring(ctx context.Context, tenantID, leadID, employeeID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Lead{}).
		Where("id = ? AND tenant_id = ? AND monitoring_owner_id IS NULL", leadID, tenantID).
		Updates(map[string]interface{}{
			"monitoring_owner_id":    employeeID,
			"monitoring_assigned_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

// UpdateStatus writes the new status; settled marks the one-time points
// transfer as applied.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, leadID int64, status Status, settled bool) error {
	updates := map[string]interface{}{"status": status}
	if settled {
		updates["points_settled"] = true
	}
	return r.db.WithContext(ctx).Model(&Lead{}).
		Where("id = ? AND tenant_id = ?", leadID, tenantID).
		Updates(updates).Error
}

// TransferMonitoring moves the lock to a new owner; touches nothing else.
func (r *Repository) TransferMonitoring(ctx context.Context, tenantID, leadID, newOwnerID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Lead{}).
		Where("id = ? AND tenant_id = ?", leadID, tenantID).
		Updates(map[string]interface{}{
			"monitoring_owner_id":       newOwnerID,
			"monitoring_transferred_at": at,
		}).Error
}

// MarkConverted stamps the converted client exactly once.
func (r *Repository) MarkConverted(ctx context.Context, tenantID, leadID, clientID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Lead{}).
		Where("id = ? AND tenant_id = ? AND converted_client_id IS NULL", leadID, tenantID).
		Update("converted_client_id", clientID)
	return res.RowsAffected == 1, res.Error
}

// ReplaceAssignments deletes the current agent set and inserts the new
// one; duplicate ids in the input collapse to a single row.
func (r *Repository) ReplaceAssignments(ctx context.Context, tenantID, leadID int64, employeeIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
			Delete(&Assignment{}).Error; err != nil {
			return err
		}

		seen := make(map[int64]bool, len(employeeIDs))
		for _, id := range employeeIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			a := Assignment{TenantID: tenantID, LeadID: leadID, EmployeeID: id}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAssignment removes a single lead/agent pair
func (r *Repository) DeleteAssignment(ctx context.Context, tenantID, leadID, employeeID int64) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ? AND employee_id = ?", tenantID, leadID, employeeID).
		Delete(&Assignment{}).Error
}

// ListAssignments returns the agents currently assigned to a lead
func (r *Repository) ListAssignments(ctx context.Context, tenantID, leadID int64) ([]Assignment, error) {
	var out []Assignment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		Order("id").
		Find(&out).Error
	return out, err
}
