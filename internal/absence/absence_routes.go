package absence

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	absences := r.Group("/absences")
	{
		absences.POST("", h.Submit)
		absences.GET("", h.GetAllByUser)
		absences.GET("/:id", h.GetByID)
		absences.PATCH("/:id", h.Update)
		absences.POST("/:id/approve", h.Approve)
		absences.POST("/:id/reject", h.Reject)
		absences.DELETE("/:id", h.Cancel)
	}
}
