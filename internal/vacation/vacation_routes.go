package vacation

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	vacation := r.Group("/vacation")
	{
		vacation.GET("/:userId/balance/:year", h.GetBalance)
		vacation.POST("/rollover", h.Rollover)
	}
}
