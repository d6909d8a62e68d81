package vacation

import (
	"net/http"
	"strconv"

	"go-timetrack/internal/shared/apperror"
	"go-timetrack/internal/shared/response"

	vacationerrors "go-timetrack/internal/vacation/errors"

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

func (h *Handler) GetBalance(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		writeServiceError(c, vacationerrors.ErrInvalidYear)
		return
	}

	resp, err := h.service.GetBalance(c.Request.Context(), c.Param("userId"), year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Rollover(c *gin.Context) {
	var req RolloverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Rollover(c.Request.Context(), req.Year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
