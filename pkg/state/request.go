package state

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedRequest is returned by ParseRequest when the request line or a
// header line cannot be parsed. The server answers such requests with 400
// before routing.
var ErrMalformedRequest = errors.New("state: malformed request")

// Request is the parsed form of one HTTP request. It is created once per
// accepted connection, mutated only during middleware and handler execution
// (through its Req handle), and discarded once the response is written.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Query      map[string]string
	Body       string
	Headers    map[string]string
	RemoteAddr string

	values map[string]any
}

// ParseRequest parses the head of a request: the request line followed by
// header lines, without the trailing empty line or body. Header keys are
// lower-cased so lookups are case-insensitive.
func ParseRequest(head []string) (*Request, error) {
	if len(head) == 0 {
		return nil, ErrMalformedRequest
	}

	parts := strings.Fields(head[0])
	if len(parts) < 2 {
		return nil, ErrMalformedRequest
	}
	method, fullPath := parts[0], parts[1]

	path := fullPath
	query := map[string]string{}
	if pos := strings.IndexByte(fullPath, '?'); pos >= 0 {
		path = fullPath[:pos]
		query = parseQuery(fullPath[pos+1:])
	}

	headers := make(map[string]string, len(head)-1)
	for _, line := range head[1:] {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return nil, ErrMalformedRequest
		}
		headers[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	return &Request{
		Method:     method,
		Path:       path,
		PathParams: map[string]string{},
		Query:      query,
		Headers:    headers,
	}, nil
}

func parseQuery(raw string) map[string]string {
	query := map[string]string{}
	for _, pair := range strings.Split(raw, "&") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			query[k] = v
		}
	}
	return query
}

// Header returns the header value for key, or "". The lookup is
// case-insensitive.
func (r *Request) Header(key string) string {
	return r.Headers[strings.ToLower(key)]
}

// ContentLength returns the declared body length, or 0 when absent or
// unparsable.
func (r *Request) ContentLength() int {
	n, err := strconv.Atoi(r.Header("Content-Length"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SetValue stores a request-scoped value.
func (r *Request) SetValue(key string, v any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	r.values[key] = v
}

// Value returns a request-scoped value stored with SetValue, or nil.
func (r *Request) Value(key string) any {
	return r.values[key]
}
