package domain

import "time"

type ClientStatus string

const (
	ClientProcessing ClientStatus = "processing"
	ClientActive     ClientStatus = "active"
)

// Client is created in status "processing" when a won lead is converted.
// It becomes active only through the external approval process; no
// login-capable account exists until then.
type Client struct {
	ID          int64        `json:"id"`
	TenantID    int64        `json:"tenant_id" gorm:"index"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Status      ClientStatus `json:"status"`
	ContactInfo string       `json:"contact_info,omitempty" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
