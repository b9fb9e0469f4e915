package domain

import "time"

type Campaign struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id" gorm:"index"`
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveAt reports whether the campaign window covers the given moment.
// Leads may only be created or updated against an active campaign.
func (c *Campaign) ActiveAt(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}
