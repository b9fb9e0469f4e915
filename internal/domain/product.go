package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product carries the two incentive values of the points ledger:
// LeadPoints is credited to the creating agent's reserve when a lead
// referencing the product is created, and moved reserve->main when the
// lead is won. CustomerPoints is credited on client conversion.
type Product struct {
	ID             int64           `json:"id"`
	TenantID       int64           `json:"tenant_id" gorm:"index"`
	Name           string          `json:"name" validate:"required"`
	PurchasePrice  decimal.Decimal `json:"purchase_price" gorm:"type:decimal(14,2);not null;default:0"`
	SalePrice      decimal.Decimal `json:"sale_price" gorm:"type:decimal(14,2);not null;default:0"`
	LeadPoints     decimal.Decimal `json:"lead_points" gorm:"type:decimal(14,2);not null;default:0"`
	CustomerPoints decimal.Decimal `json:"customer_points" gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
