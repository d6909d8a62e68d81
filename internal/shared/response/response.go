package response

import (
	"github.com/gin-gonic/gin"
)

type ApiEnvelope struct {
	Ok       bool     `json:"ok"`
	Data     any      `json:"data,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    any      `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, ApiEnvelope{
		Ok:   true,
		Data: data,
	})
}

// SuccessWithWarnings is used by the time-entry endpoints, where advisory
// compliance warnings accompany an otherwise successful write.
func SuccessWithWarnings(c *gin.Context, status int, data interface{}, warnings []string) {
	c.JSON(status, ApiEnvelope{
		Ok:       true,
		Data:     data,
		Warnings: warnings,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	c.JSON(status, ApiEnvelope{
		Ok: false,
		Error: map[string]interface{}{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}
