package conversion

import "github.com/gin-gonic/gin"

// RegisterRoutes registers conversion routes under the authenticated group
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/leads/:id/convert", handler.Convert)
	r.GET("/leads/:id/approval", handler.GetApproval)
}
