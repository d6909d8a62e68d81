package bootstrap

import (
	"context"

	"go-timetrack/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries to the process log. A real
// deployment would swap in a sink with retention guarantees; the interface
// is what the rest of the code depends on.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	}
	if reqID := contextutil.GetRequestID(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	zap.L().Named("audit").Info("audit event", fields...)
}
