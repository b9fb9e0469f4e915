package conversion

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pkg/response"
	"salescrm/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Convert handles POST /api/v1/leads/:id/convert
func (h *Handler) Convert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	actor := Actor{
		UserID:     c.GetInt64("user_id"),
		EmployeeID: c.GetInt64("employee_id"),
		Bypass:     c.GetString("role") == "admin",
	}

	client, err := h.service.Convert(c.Request.Context(), c.GetInt64("tenant_id"), id, actor, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, client)
}

// GetApproval handles GET /api/v1/leads/:id/approval
func (h *Handler) GetApproval(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	approval, err := h.service.ApprovalForLead(c.Request.Context(), c.GetInt64("tenant_id"), id)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
		return
	}
	if approval == nil {
		response.CustomError(c, http.StatusNotFound, "APPROVAL_NOT_FOUND", "No approval request for this lead")
		return
	}
	response.Success(c, http.StatusOK, approval)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.CustomError(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrNotMonitoringOwner):
		response.CustomError(c, http.StatusForbidden, "NOT_MONITORING_OWNER", "Only the monitoring owner may convert")
	case errors.Is(err, ErrLeadNotWon):
		response.CustomError(c, http.StatusConflict, "LEAD_NOT_WON", "Only a won lead can be converted")
	case errors.Is(err, ErrAlreadyConverted):
		response.CustomError(c, http.StatusConflict, "ALREADY_CONVERTED", "Lead already converted")
	case errors.Is(err, ErrEmailRequired):
		response.CustomError(c, http.StatusBadRequest, "EMAIL_REQUIRED", "No usable email for the client")
	case errors.Is(err, ErrPasswordTooShort):
		response.CustomError(c, http.StatusBadRequest, "PASSWORD_TOO_SHORT", "Password must be at least 8 characters")
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}
