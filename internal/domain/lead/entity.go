package lead

import (
	"time"

	"github.com/shopspring/decimal"

	"salescrm/internal/domain"
)

// Status represents lead disposition status
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusNegotiation Status = "negotiation"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusNegotiation, StatusWon, StatusLost:
		return true
	}
	return false
}

// Source represents how the lead entered the system
type Source string

const (
	SourceManual Source = "manual"
	SourceInbox  Source = "inbox"
)

// Lead is a prospective sale moving through the disposition lifecycle.
// MonitoringOwnerID is the cooperative first-writer-wins lock: the first
// agent to change the status claims the lead, and only the owner (or a
// bypass role) may progress or convert it afterwards.
type Lead struct {
	ID          int64  `json:"id"`
	TenantID    int64  `json:"tenant_id" gorm:"index"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Source      Source `json:"source"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Value         string `json:"value,omitempty"`

	Status         Status `json:"status"`
	CategoryID     *int64 `json:"category_id,omitempty"`
	InterestID     *int64 `json:"interest_id,omitempty"`
	CampaignID     *int64 `json:"campaign_id,omitempty"`
	ProductID      *int64 `json:"product_id,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty" gorm:"uniqueIndex"`

	CreatorID int64 `json:"creator_id" gorm:"index"`

	MonitoringOwnerID       *int64     `json:"monitoring_owner_id,omitempty" gorm:"index"`
	MonitoringAssignedAt    *time.Time `json:"monitoring_assigned_at,omitempty"`
	MonitoringTransferredAt *time.Time `json:"monitoring_transferred_at,omitempty"`

	ConvertedClientID *int64 `json:"converted_client_id,omitempty"`

	// PointsSettled latches after the one-time reserve->main transfer on
	// the first transition into won; leaving won never reverses it.
	PointsSettled bool `json:"-" gorm:"not null;default:false"`

	PurchasePrice decimal.NullDecimal `json:"purchase_price,omitempty" gorm:"type:decimal(14,2)"`
	SalePrice     decimal.NullDecimal `json:"sale_price,omitempty" gorm:"type:decimal(14,2)"`
	Profit        decimal.NullDecimal `json:"profit,omitempty" gorm:"type:decimal(14,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product  *domain.Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Campaign *domain.Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
}

// IsWon returns true if the lead is currently won
func (l *Lead) IsWon() bool {
	return l.Status == StatusWon
}

// IsConverted returns true if the lead was already converted to a client
func (l *Lead) IsConverted() bool {
	return l.ConvertedClientID != nil
}

// IsClaimed returns true if a monitoring owner is set
func (l *Lead) IsClaimed() bool {
	return l.MonitoringOwnerID != nil
}

// OwnedBy reports whether the given employee holds the monitoring lock.
func (l *Lead) OwnedBy(employeeID int64) bool {
	return l.MonitoringOwnerID != nil && *l.MonitoringOwnerID == employeeID
}

// Assignment links a lead to a sales agent. Pure association, no
// ordering semantics; duplicates are suppressed on insert.
type Assignment struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id" gorm:"index"`
	LeadID     int64     `json:"lead_id" gorm:"uniqueIndex:idx_lead_agent"`
	EmployeeID int64     `json:"employee_id" gorm:"uniqueIndex:idx_lead_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Assignment) TableName() string { return "lead_assignments" }
