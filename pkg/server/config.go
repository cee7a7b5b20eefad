// Package server provides the concurrent HTTP server core of the SServe
// framework: the accept loop, the per-connection pipeline (read, parse,
// route, run the middleware chain, write), and the worker pool dispatching
// connections.
package server

import (
	"time"

	"go.uber.org/zap"
)

// Config defines the global configuration for the server.
type Config struct {
	// Logger receives all server, worker, and access logs. A production
	// zap logger is created when nil.
	Logger *zap.Logger

	// Workers is the number of pool workers. Non-positive means four times
	// the number of CPUs.
	Workers int

	// QueueSize bounds the pending-connection queue. Non-positive means
	// workerpool.DefaultQueueSize. A full queue blocks the acceptor.
	QueueSize int

	// StaticRoot, when non-empty, is the directory unmatched GET requests
	// are resolved against before the 404 fallback. "/" maps to index.html.
	StaticRoot string

	// SlowThreshold is the request duration above which an access log entry
	// is raised to Warn. Zero means one second.
	SlowThreshold time.Duration
}

func (c Config) slowThreshold() time.Duration {
	if c.SlowThreshold <= 0 {
		return time.Second
	}
	return c.SlowThreshold
}
