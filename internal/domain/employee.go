package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the sales-side profile of a user. ReservePoints and
// MainPoints are incentive accumulators; they are only ever mutated
// through the points service, inside a lead-lifecycle transaction.
type Employee struct {
	ID            int64           `json:"id"`
	TenantID      int64           `json:"tenant_id" gorm:"index"`
	UserID        int64           `json:"user_id" gorm:"index"`
	Name          string          `json:"name"`
	Role          UserRole        `json:"role"`
	ReservePoints decimal.Decimal `json:"reserve_points" gorm:"type:decimal(14,2);not null;default:0"`
	MainPoints    decimal.Decimal `json:"main_points" gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
