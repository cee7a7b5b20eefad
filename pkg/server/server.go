package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/middleware"
	"github.com/Suhaibinator/SServe/pkg/router"
	"github.com/Suhaibinator/SServe/pkg/workerpool"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Server accepts connections, dispatches each to a pool worker, and runs
// the full request pipeline on it. Routes and global middleware must be
// registered before Listen or Serve is called; the route table is read-only
// while serving.
type Server struct {
	config      Config
	logger      *zap.Logger
	router      *router.Router
	middlewares common.MiddlewareChain
	pool        *workerpool.Pool

	mu       sync.RWMutex
	listener net.Listener
	shutdown bool
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	return &Server{
		config: config,
		logger: logger,
		router: router.New(),
	}
}

// Register stores a route with an optional middleware list. It fails only
// on malformed patterns, such as a duplicate parameter name.
func (s *Server) Register(method, pattern string, handler common.Handler, middlewares ...common.Middleware) error {
	return s.router.Register(method, pattern, handler, middlewares...)
}

// Get registers a GET route.
func (s *Server) Get(pattern string, handler common.Handler, middlewares ...common.Middleware) error {
	return s.Register("GET", pattern, handler, middlewares...)
}

// Post registers a POST route.
func (s *Server) Post(pattern string, handler common.Handler, middlewares ...common.Middleware) error {
	return s.Register("POST", pattern, handler, middlewares...)
}

// Put registers a PUT route.
func (s *Server) Put(pattern string, handler common.Handler, middlewares ...common.Middleware) error {
	return s.Register("PUT", pattern, handler, middlewares...)
}

// Delete registers a DELETE route.
func (s *Server) Delete(pattern string, handler common.Handler, middlewares ...common.Middleware) error {
	return s.Register("DELETE", pattern, handler, middlewares...)
}

// Use appends a global middleware. Global middleware run before route
// middleware for every request, including requests that match no route.
func (s *Server) Use(mw common.Middleware) {
	s.middlewares = s.middlewares.Append(mw)
}

// UseCORS appends the CORS middleware with the given configuration as a
// global middleware.
func (s *Server) UseCORS(cfg middleware.CORSConfig) {
	s.Use(middleware.CORS(cfg))
}

// ServeStatic sets the directory unmatched GET requests are served from.
func (s *Server) ServeStatic(root string) {
	s.config.StaticRoot = root
}

// SetWorkers overrides the worker count. It has no effect once serving has
// started.
func (s *Server) SetWorkers(n int) {
	s.config.Workers = n
}

// Listen binds the given port on the loopback interface and serves until
// Shutdown.
func (s *Server) Listen(port int) error {
	return s.ListenAddr(fmt.Sprintf("127.0.0.1:%d", port))
}

// ListenAddr binds the given address and serves until Shutdown.
func (s *Server) ListenAddr(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve starts the worker pool and runs the accept loop on ln. It blocks
// until the listener fails or Shutdown closes it, and returns nil on a
// clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.pool = workerpool.New(s.config.Workers, s.config.QueueSize, s.logger)
	s.mu.Unlock()

	s.logger.Info("Server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("workers", s.pool.Size()),
	)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isShutdown() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("Accept failed", zap.Error(err))
			return err
		}

		// Submit blocks when the queue is full, so a saturated pool slows
		// the accept loop instead of dropping connections.
		if err := s.pool.Submit(func() { s.handleConn(conn) }); err != nil {
			_ = conn.Close()
			return nil
		}
	}
}

// Shutdown stops accepting new connections, lets in-flight connections
// finish, and joins all workers. It returns the context's error if the
// workers do not drain in time.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	ln := s.listener
	pool := s.pool
	s.mu.Unlock()

	var err error
	if ln != nil {
		if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	if pool != nil {
		err = multierr.Append(err, pool.Shutdown(ctx))
	}
	return err
}

func (s *Server) isShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shutdown
}
