package domain

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleLeadManager UserRole = "lead_manager"
	RoleAgent       UserRole = "agent"
	RoleClient      UserRole = "client"
)

// CanBypassMonitoring reports whether the role may act on a lead
// regardless of who holds the monitoring lock.
func (r UserRole) CanBypassMonitoring() bool {
	return r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id" gorm:"index"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
