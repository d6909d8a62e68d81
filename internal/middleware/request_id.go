package middleware

import (
	"go-timetrack/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Set("request_id", rid)

		// Propagate to the standard context so services can log it. The
		// actor id rides along when the gateway set one.
		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		if actor := c.GetHeader("X-Actor-ID"); actor != "" {
			ctx = contextutil.WithActorID(ctx, actor)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
