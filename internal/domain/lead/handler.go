package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pkg/response"
	"salescrm/internal/pkg/validator"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates lead handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateLead handles POST /api/v1/leads
func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	l, err := h.service.CreateLead(c.Request.Context(), tenantID(c), employeeID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// CreateFromConversation handles POST /api/v1/leads/from-conversation
func (h *Handler) CreateFromConversation(c *gin.Context) {
	var req CreateFromConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	l, err := h.service.CreateLeadFromConversation(c.Request.Context(), tenantID(c), employeeID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// GetLead handles GET /api/v1/leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// ListLeads handles GET /api/v1/leads
func (h *Handler) ListLeads(c *gin.Context) {
	var status *Status
	if s := c.Query("status"); s != "" {
		v := Status(s)
		if !v.Valid() {
			response.CustomError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown lead status")
			return
		}
		status = &v
	}

	var campaignID *int64
	if s := c.Query("campaign_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID")
			return
		}
		campaignID = &v
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	leads, total, err := h.service.List(c.Request.Context(), tenantID(c), status, campaignID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Leads: leads, Total: total})
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	l, err := h.service.UpdateStatus(c.Request.Context(), tenantID(c), id, req.Status, employeeID(c), bypass(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// TransferMonitoring handles POST /api/v1/leads/:id/transfer
func (h *Handler) TransferMonitoring(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req TransferMonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	l, err := h.service.TransferMonitoring(c.Request.Context(), tenantID(c), id, employeeID(c), req.NewOwnerID, bypass(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// AssignAgents handles PUT /api/v1/leads/:id/agents
func (h *Handler) AssignAgents(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req AssignAgentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	if err := h.service.AssignAgents(c.Request.Context(), tenantID(c), id, req.EmployeeIDs); err != nil {
		h.writeError(c, err)
		return
	}

	assignments, err := h.service.Assignments(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignments)
}

// UnassignAgent handles DELETE /api/v1/leads/:id/agents/:employeeId
func (h *Handler) UnassignAgent(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	employee, err := strconv.ParseInt(c.Param("employeeId"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID")
		return
	}

	if err := h.service.UnassignAgent(c.Request.Context(), tenantID(c), id, employee); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead_id": id, "employee_id": employee})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.CustomError(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrEmployeeNotFound):
		response.CustomError(c, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found")
	case errors.Is(err, ErrCampaignNotFound):
		response.CustomError(c, http.StatusNotFound, "CAMPAIGN_NOT_FOUND", "Campaign not found")
	case errors.Is(err, ErrProductNotFound):
		response.CustomError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, ErrCategoryNotFound):
		response.CustomError(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found")
	case errors.Is(err, ErrInterestNotFound):
		response.CustomError(c, http.StatusNotFound, "INTEREST_NOT_FOUND", "Interest not found")
	case errors.Is(err, ErrConversationNotFound):
		response.CustomError(c, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
	case errors.Is(err, ErrInvalidStatus):
		response.CustomError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown lead status")
	case errors.Is(err, ErrCampaignClosed):
		response.CustomError(c, http.StatusConflict, "CAMPAIGN_CLOSED", "Campaign is outside its active window")
	case errors.Is(err, ErrConversationHasLead):
		response.CustomError(c, http.StatusConflict, "CONVERSATION_HAS_LEAD", "Conversation already has a lead")
	case errors.Is(err, ErrMonitoringHeld):
		response.CustomError(c, http.StatusForbidden, "MONITORING_HELD", "Lead is monitored by another employee")
	case errors.Is(err, ErrNotClaimed):
		response.CustomError(c, http.StatusConflict, "NOT_CLAIMED", "Lead has no monitoring owner yet")
	case errors.Is(err, ErrNotMonitoringOwner):
		response.CustomError(c, http.StatusForbidden, "NOT_MONITORING_OWNER", "Only the monitoring owner may do this")
	case errors.Is(err, ErrInvalidTransferTarget):
		response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_TRANSFER_TARGET", "Transfer target must be a different lead manager in the same tenant")
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}

func tenantID(c *gin.Context) int64 {
	return c.GetInt64("tenant_id")
}

func employeeID(c *gin.Context) int64 {
	return c.GetInt64("employee_id")
}

func bypass(c *gin.Context) bool {
	return c.GetString("role") == "admin"
}
