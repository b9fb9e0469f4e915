package lead

import "github.com/shopspring/decimal"

// CreateLeadRequest represents manual lead creation
type CreateLeadRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone"`
	Value         string `json:"value"`

	CategoryID *int64 `json:"category_id"`
	InterestID *int64 `json:"interest_id"`
	CampaignID *int64 `json:"campaign_id"`
	ProductID  *int64 `json:"product_id"`

	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	// Profit is used only when one of the prices is absent; when both
	// are present it is computed as sale - purchase.
	Profit *decimal.Decimal `json:"profit"`
}

// CreateFromConversationRequest derives a lead from an inbox conversation
type CreateFromConversationRequest struct {
	ConversationID int64 `json:"conversation_id" validate:"required"`
	CreateLeadRequest
}

// UpdateStatusRequest represents a status transition
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=new contacted negotiation won lost"`
}

// TransferMonitoringRequest hands the monitoring lock to another lead manager
type TransferMonitoringRequest struct {
	NewOwnerID int64 `json:"new_owner_id" validate:"required"`
}

// AssignAgentsRequest replaces the set of agents assigned to a lead
type AssignAgentsRequest struct {
	EmployeeIDs []int64 `json:"employee_ids" validate:"required,min=1"`
}

// ListResponse represents a paginated lead list
type ListResponse struct {
	Leads []Lead `json:"leads"`
	Total int64  `json:"total"`
}
