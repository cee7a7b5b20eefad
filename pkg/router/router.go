// Package router maps (method, path) pairs to handlers with path-parameter
// capture. Routes are scanned in registration order and the first full match
// wins: every literal segment must equal the corresponding path segment, a
// :name segment matches any single segment and captures it, and the segment
// counts must be equal. There is no prefix or longest-match logic.
//
// The route table is built at startup and must not be modified once serving
// begins; Match is then safe for unsynchronized concurrent use.
package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Suhaibinator/SServe/pkg/common"
)

var (
	// ErrEmptyParam is returned when a pattern contains a bare ":" segment.
	ErrEmptyParam = errors.New("router: empty parameter name")

	// ErrDuplicateParam is returned when a pattern names the same parameter
	// twice.
	ErrDuplicateParam = errors.New("router: duplicate parameter name")
)

// Route binds a (method, pattern) pair to a handler and its middleware.
type Route struct {
	Method      string
	Pattern     string
	Handler     common.Handler
	Middlewares []common.Middleware

	segments []string
	paramIdx []int
}

// Match is the result of a successful route lookup.
type Match struct {
	Handler     common.Handler
	Middlewares []common.Middleware
	Params      map[string]string
}

// Router holds the registered routes, keyed by method in registration order.
type Router struct {
	routes map[string][]*Route
}

// New creates an empty Router.
func New() *Router {
	return &Router{routes: map[string][]*Route{}}
}

// Register stores a route. It fails only on malformed patterns: a duplicate
// parameter name within the pattern, or a bare ":" segment. (method, pattern)
// pairs need not be unique; the first registered match wins at lookup time.
func (r *Router) Register(method, pattern string, handler common.Handler, middlewares ...common.Middleware) error {
	segments := splitPath(pattern)

	var paramIdx []int
	seen := map[string]struct{}{}
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		if name == "" {
			return fmt.Errorf("%w in pattern %q", ErrEmptyParam, pattern)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w %q in pattern %q", ErrDuplicateParam, name, pattern)
		}
		seen[name] = struct{}{}
		paramIdx = append(paramIdx, i)
	}

	r.routes[method] = append(r.routes[method], &Route{
		Method:      method,
		Pattern:     pattern,
		Handler:     handler,
		Middlewares: middlewares,
		segments:    segments,
		paramIdx:    paramIdx,
	})
	return nil
}

// Match resolves a request path against the routes registered for method.
// It returns the first full match in registration order, with captured
// parameters, or ok=false when no route matches.
func (r *Router) Match(method, path string) (*Match, bool) {
	parts := splitPath(path)

	for _, route := range r.routes[method] {
		params, ok := route.match(parts)
		if ok {
			return &Match{
				Handler:     route.Handler,
				Middlewares: route.Middlewares,
				Params:      params,
			}, true
		}
	}
	return nil, false
}

func (rt *Route) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(rt.segments) {
		return nil, false
	}

	for i, seg := range rt.segments {
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}

	params := make(map[string]string, len(rt.paramIdx))
	for _, i := range rt.paramIdx {
		params[rt.segments[i][1:]] = parts[i]
	}
	return params, true
}

// splitPath splits a pattern or request path into segments, ignoring
// leading and trailing slashes so "/" and "" both yield a single empty
// segment.
func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}
