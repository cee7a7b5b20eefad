package middleware

import (
	"time"

	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
	"go.uber.org/zap"
)

// Logging creates a middleware that logs each request with its method,
// path, status code, and duration once the rest of the chain has run. When
// a trace ID is present it is included in the log fields.
func Logging(logger *zap.Logger) common.Middleware {
	return func(req *state.Req, res *state.Res, next common.Next) {
		start := time.Now()

		next()

		fields := []zap.Field{
			zap.String("method", req.Method()),
			zap.String("path", req.Path()),
			zap.Int("status", res.StatusCode()),
			zap.Duration("duration", time.Since(start)),
		}
		if traceID := GetTraceID(req); traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}

		logger.Info("Request", fields...)
	}
}
