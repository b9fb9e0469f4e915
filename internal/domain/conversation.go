package domain

import "time"

// Conversation is a read-only snapshot of an inbox thread. The messaging
// subsystem owns these rows; the lead engine only looks them up when a
// lead is derived from a conversation or when conversion needs the
// customer's platform contact details.
type Conversation struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"tenant_id" gorm:"index"`
	Platform       string    `json:"platform"`
	PlatformUserID string    `json:"platform_user_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone,omitempty"`
	CustomerEmail  string    `json:"customer_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
