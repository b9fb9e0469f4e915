package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes registers lead routes under the authenticated group
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.POST("", handler.CreateLead)
		leads.POST("/from-conversation", handler.CreateFromConversation)
		leads.GET("", handler.ListLeads)
		leads.GET("/:id", handler.GetLead)
		leads.PATCH("/:id/status", handler.UpdateStatus)
		leads.POST("/:id/transfer", handler.TransferMonitoring)
		leads.PUT("/:id/agents", handler.AssignAgents)
		leads.DELETE("/:id/agents/:employeeId", handler.UnassignAgent)
	}
}
