package overtime

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
	"go-timetrack/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetMonthly(c *gin.Context) {
	resp, err := h.service.GetMonthlyOvertime(c.Request.Context(), c.Param("userId"), c.Param("month"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Recalculate(c *gin.Context) {
	if err := h.service.RecalculateForUser(c.Request.Context(), c.Param("userId")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"status": "recalculation scheduled"})
}

func (h *Handler) CreateCorrection(c *gin.Context) {
	var req CreateCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateCorrection(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	status := http.StatusCreated
	if !resp.Created {
		status = http.StatusOK
	}
	response.Success(c, status, resp)
}

func (h *Handler) GetHistory(c *gin.Context) {
	resp, err := h.service.GetHistory(c.Request.Context(), c.Param("userId"), c.Query("from"), c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
