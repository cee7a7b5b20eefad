package middleware

import (
	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
	"github.com/google/uuid"
)

// TraceIDKey is the request-scoped value key under which the trace ID is
// stored.
const TraceIDKey = "trace_id"

// Trace creates a middleware that generates a unique trace ID for each
// request, stores it as a request-scoped value, and echoes it in the
// X-Trace-Id response header. This allows a request to be correlated across
// logs.
func Trace() common.Middleware {
	return func(req *state.Req, res *state.Res, next common.Next) {
		traceID := uuid.New().String()

		req.SetValue(TraceIDKey, traceID)
		res.SetHeader("X-Trace-Id", traceID)

		next()
	}
}

// GetTraceID extracts the trace ID from the request.
// Returns an empty string if no trace ID is found.
func GetTraceID(req *state.Req) string {
	if traceID, ok := req.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}
