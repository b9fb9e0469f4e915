package conversion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ClientApprovalRequest is the staging record created when a won lead is
// converted. It holds the password hash until the external approval step
// promotes the client; no login-capable account exists before that.
type ClientApprovalRequest struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID int64     `json:"tenant_id" gorm:"index"`

	LeadID   int64 `json:"lead_id" gorm:"uniqueIndex"`
	ClientID int64 `json:"client_id" gorm:"index"`

	RequestedByUserID     int64 `json:"requested_by_user_id"`
	RequestedByEmployeeID int64 `json:"requested_by_employee_id"`

	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	CustomerPoints decimal.Decimal `json:"customer_points" gorm:"type:decimal(14,2);not null;default:0"`

	Status    ApprovalStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Client *domain.Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (ClientApprovalRequest) TableName() string { return "client_approval_requests" }

func (r *ClientApprovalRequest) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
