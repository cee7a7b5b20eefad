package server

import (
	"bufio"
	"io"
	"net"
	"time"

	"github.com/Suhaibinator/SServe/pkg/chain"
	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
	"go.uber.org/zap"
)

// handleConn runs one connection end-to-end on the worker that picked it
// up: read and parse the request, resolve the route, run the middleware
// chain, and close the connection once the response is written.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()

	res := state.NewRes(state.NewResponse(conn))

	req, err := s.readRequest(bufio.NewReader(conn))
	if err != nil {
		// Malformed requests never enter routing or middleware.
		res.Status(400)
		_ = res.Send("Bad Request")
		s.logger.Warn("Malformed request",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	if addr := conn.RemoteAddr(); addr != nil {
		req.RemoteAddr = addr.String()
	}

	method, path, remote := req.Method, req.Path, req.RemoteAddr
	reqHandle := state.NewReq(req)

	s.dispatch(reqHandle, res)

	s.logAccess(method, path, remote, res, time.Since(start))
}

// dispatch resolves the route and runs the middleware chain. A request that
// matches no route still passes through the global middleware, with the
// not-found responder as its terminal handler. A panic out of a handler or
// middleware is caught here, answered with 500 when nothing was written,
// and isolated to this one request.
func (s *Server) dispatch(req *state.Req, res *state.Res) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Panic recovered",
				zap.Any("panic", rec),
				zap.String("method", req.Method()),
				zap.String("path", req.Path()),
			)
			if !res.Written() {
				res.Status(500)
				_ = res.Send("Internal Server Error")
			}
		}
	}()

	entries := s.middlewares
	terminal := s.notFound

	if m, ok := s.router.Match(req.Method(), req.Path()); ok {
		req.WithWrite(func(r *state.Request) { r.PathParams = m.Params })
		// Prepend copies, so per-request concatenation never mutates the
		// registered lists.
		entries = common.MiddlewareChain(m.Middlewares).Prepend(s.middlewares...)
		terminal = m.Handler
	}

	chain.New(req, res, entries, terminal).Run()
}

// notFound is the terminal handler for unmatched requests. With a static
// root configured, a GET is resolved against the filesystem first; a miss
// has the same shape as a route miss.
func (s *Server) notFound(req *state.Req, res *state.Res) {
	if s.config.StaticRoot != "" && req.Method() == "GET" {
		if s.serveStatic(req.Path(), res) {
			return
		}
	}
	res.Status(404)
	_ = res.Send("404 Not Found")
}

// readRequest reads the request head line by line until the blank line,
// parses it, then reads the body sized by Content-Length.
func (s *Server) readRequest(r *bufio.Reader) (*state.Request, error) {
	var head []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF && len(head) > 0 {
				break
			}
			return nil, err
		}
		line = trimLineEnding(line)
		if line == "" {
			break
		}
		head = append(head, line)
	}

	req, err := state.ParseRequest(head)
	if err != nil {
		return nil, err
	}

	if n := req.ContentLength(); n > 0 {
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, err
		}
		req.Body = string(body)
	}
	return req, nil
}

func trimLineEnding(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// logAccess mirrors the request outcome into the log: Debug for routine
// traffic, Warn for client errors and slow requests, Error for server
// errors.
func (s *Server) logAccess(method, path, remote string, res *state.Res, duration time.Duration) {
	status := res.StatusCode()
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("remote_addr", remote),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	}

	switch {
	case status >= 500:
		s.logger.Error("Server error", fields...)
	case status >= 400:
		s.logger.Warn("Client error", fields...)
	case duration > s.config.slowThreshold():
		s.logger.Warn("Slow request", fields...)
	default:
		s.logger.Debug("Request", fields...)
	}
}
