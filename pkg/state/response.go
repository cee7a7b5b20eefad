package state

import (
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strings"

	"github.com/Suhaibinator/SServe/pkg/codec"
)

// ErrResponseWritten is returned by Send, JSON, and Marshal when the
// response has already been serialized. The second write is rejected without
// touching the stream.
var ErrResponseWritten = errors.New("state: response already written")

// Response accumulates status and headers until the first write, then
// serializes exactly once to the output stream it owns. The stopped flag is
// monotonic: once set it never reverts, and the chain executor stops
// invoking entries as soon as it is observed.
type Response struct {
	status  int
	headers map[string]string
	stopped bool
	written bool
	out     io.Writer
}

// NewResponse creates a Response that writes to out. The status defaults
// to 200.
func NewResponse(out io.Writer) *Response {
	return &Response{
		status:  200,
		headers: map[string]string{},
		out:     out,
	}
}

// Status sets the status code. It may be called multiple times before the
// first write; it has no effect afterwards and never sets stopped.
func (r *Response) Status(code int) {
	if !r.written {
		r.status = code
	}
}

// StatusCode returns the current status code.
func (r *Response) StatusCode() int {
	return r.status
}

// SetHeader sets a header, replacing any previous value. Keys are stored in
// canonical MIME form.
func (r *Response) SetHeader(key, value string) {
	r.headers[textproto.CanonicalMIMEHeaderKey(key)] = value
}

// Header returns the current value of a header, or "".
func (r *Response) Header(key string) string {
	return r.headers[textproto.CanonicalMIMEHeaderKey(key)]
}

// RemoveHeader removes a header.
func (r *Response) RemoveHeader(key string) {
	delete(r.headers, textproto.CanonicalMIMEHeaderKey(key))
}

// Stop marks the response stopped without writing. Remaining chain entries,
// including the terminal handler, will not run.
func (r *Response) Stop() {
	r.stopped = true
}

// Stopped reports whether the response has been marked stopped.
func (r *Response) Stopped() bool {
	return r.stopped
}

// Written reports whether the response has been serialized to the stream.
func (r *Response) Written() bool {
	return r.written
}

// Send writes the status line, headers, and body, then marks the response
// stopped. Content-Type defaults to text/plain for a non-empty body when
// the caller has not set one. Content-Length is always computed from the
// body.
func (r *Response) Send(body string) error {
	if _, ok := r.headers["Content-Type"]; !ok && body != "" {
		r.headers["Content-Type"] = "text/plain"
	}
	return r.write([]byte(body))
}

// JSON serializes v as JSON, sets Content-Type application/json, writes,
// and marks the response stopped.
func (r *Response) JSON(v any) error {
	return r.Marshal(codec.JSONCodec{}, v)
}

// Marshal serializes v with the given codec, sets the codec's content type,
// writes, and marks the response stopped.
func (r *Response) Marshal(m codec.Marshaler, v any) error {
	if r.written {
		return ErrResponseWritten
	}
	body, err := m.Marshal(v)
	if err != nil {
		return err
	}
	r.headers["Content-Type"] = m.ContentType()
	return r.write(body)
}

// write serializes the response exactly once. A second call fails before
// any byte reaches the stream.
func (r *Response) write(body []byte) error {
	if r.written {
		return ErrResponseWritten
	}
	r.written = true
	r.stopped = true

	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.status, StatusText(r.status))

	// Content-Length is always computed from the body being written.
	delete(r.headers, "Content-Length")

	// Deterministic header order keeps the wire output reproducible.
	keys := make([]string, 0, len(r.headers))
	for k := range r.headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, r.headers[k])
	}
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)

	_, err := io.WriteString(r.out, b.String())
	return err
}

// StatusText returns the reason phrase for the given status code.
func StatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown"
	}
}
