package lead

import "errors"

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrInterestNotFound     = errors.New("interest not found")
	ErrConversationNotFound = errors.New("conversation not found")

	ErrInvalidStatus       = errors.New("unknown lead status")
	ErrCampaignClosed      = errors.New("campaign is outside its active window")
	ErrConversationHasLead = errors.New("conversation already has a lead")

	ErrMonitoringHeld        = errors.New("lead is monitored by another employee")
	ErrNotClaimed            = errors.New("lead has no monitoring owner yet")
	ErrNotMonitoringOwner    = errors.New("only the monitoring owner may do this")
	ErrInvalidTransferTarget = errors.New("transfer target must be a different lead manager in the same tenant")
)
