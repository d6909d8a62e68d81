package timeentry

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	entries := r.Group("/time-entries")
	{
		entries.POST("", h.Submit)
		entries.POST("/validate", h.Validate)
		entries.GET("/:userId", h.GetForUser)
	}
}
