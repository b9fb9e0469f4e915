package points

import "github.com/gin-gonic/gin"

// RegisterRoutes registers read-only balance routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/employees/:id/points", handler.GetBalances)
}
