package overtime

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	overtime := r.Group("/overtime")
	{
		overtime.GET("/:userId/monthly/:month", h.GetMonthly)
		overtime.GET("/:userId/transactions", h.GetHistory)
		overtime.POST("/:userId/recalculate", h.Recalculate)
		overtime.POST("/corrections", h.CreateCorrection)
	}
}
