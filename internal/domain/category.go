package domain

import "time"

type Category struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id" gorm:"index"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Interest struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id" gorm:"index"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
