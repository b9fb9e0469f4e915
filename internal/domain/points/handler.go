package points

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetBalances handles GET /api/v1/employees/:id/points
func (h *Handler) GetBalances(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID")
		return
	}

	reserve, main, err := h.service.Balances(c.Request.Context(), c.GetInt64("tenant_id"), id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			response.CustomError(c, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"employee_id":    id,
		"reserve_points": reserve,
		"main_points":    main,
	})
}
