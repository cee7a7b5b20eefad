// Package state holds the per-request mutable state of the SServe framework:
// the parsed Request, the Response writer, and the locked handles through
// which middleware and handlers access both.
//
// A Req or Res handle is shared by reference between the chain executor and
// every middleware and handler closure for the lifetime of one request. All
// access goes through a reader/writer lock. The scoped accessors WithRead and
// WithWrite release the lock on every exit path, including panics. Manual
// locking via RLock/Lock is permitted, but the caller owns the release, and
// a lock must never be held across a call to the chain continuation: the
// lock is not reentrant, so the next middleware touching the same handle
// from the same goroutine would deadlock.
package state

import "sync"

// Locked wraps a value behind a reader/writer lock with scoped access.
type Locked[T any] struct {
	mu  sync.RWMutex
	val *T
}

// NewLocked creates a locked handle around v.
func NewLocked[T any](v *T) *Locked[T] {
	return &Locked[T]{val: v}
}

// WithRead acquires the read lock, invokes f, and releases the lock on every
// exit path. f must treat the value as immutable.
func (l *Locked[T]) WithRead(f func(*T)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	f(l.val)
}

// WithWrite acquires the exclusive lock, invokes f with mutable access, and
// releases the lock on every exit path.
func (l *Locked[T]) WithWrite(f func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f(l.val)
}

// RLock acquires the read lock manually and returns the value. The caller
// must call RUnlock, and must not hold the lock across the chain
// continuation.
func (l *Locked[T]) RLock() *T {
	l.mu.RLock()
	return l.val
}

// RUnlock releases a read lock acquired with RLock.
func (l *Locked[T]) RUnlock() {
	l.mu.RUnlock()
}

// Lock acquires the exclusive lock manually and returns the value. The
// caller must call Unlock, and must not hold the lock across the chain
// continuation.
func (l *Locked[T]) Lock() *T {
	l.mu.Lock()
	return l.val
}

// Unlock releases a lock acquired with Lock.
func (l *Locked[T]) Unlock() {
	l.mu.Unlock()
}

// View invokes f under the read lock and returns its result. It exists
// because Go methods cannot introduce a type parameter for the result.
func View[T any, R any](l *Locked[T], f func(*T) R) R {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return f(l.val)
}

// Req is the locked handle to a Request.
type Req struct {
	Locked[Request]
}

// NewReq wraps a parsed Request in a locked handle.
func NewReq(r *Request) *Req {
	return &Req{Locked[Request]{val: r}}
}

// Method returns the request method.
func (r *Req) Method() string {
	return View(&r.Locked, func(req *Request) string { return req.Method })
}

// Path returns the request path without the query string.
func (r *Req) Path() string {
	return View(&r.Locked, func(req *Request) string { return req.Path })
}

// Param returns the captured path parameter with the given name, or "".
func (r *Req) Param(name string) string {
	return View(&r.Locked, func(req *Request) string { return req.PathParams[name] })
}

// QueryValue returns the query-string value for key, or "".
func (r *Req) QueryValue(key string) string {
	return View(&r.Locked, func(req *Request) string { return req.Query[key] })
}

// HeaderValue returns the header value for key, or "". Header keys are
// lower-cased at parse time, so the lookup is case-insensitive.
func (r *Req) HeaderValue(key string) string {
	return View(&r.Locked, func(req *Request) string { return req.Header(key) })
}

// BodyString returns the request body, or "" when none was sent.
func (r *Req) BodyString() string {
	return View(&r.Locked, func(req *Request) string { return req.Body })
}

// SetValue stores a request-scoped value, visible to later middleware and
// the handler of the same request.
func (r *Req) SetValue(key string, v any) {
	r.WithWrite(func(req *Request) { req.SetValue(key, v) })
}

// Value returns a request-scoped value stored with SetValue, or nil.
func (r *Req) Value(key string) any {
	return View(&r.Locked, func(req *Request) any { return req.Value(key) })
}

// Res is the locked handle to a Response.
type Res struct {
	Locked[Response]
}

// NewRes wraps a Response in a locked handle.
func NewRes(r *Response) *Res {
	return &Res{Locked[Response]{val: r}}
}

// Status sets the status code for the eventual write. It may be called any
// number of times before the first write and does not stop the chain.
func (r *Res) Status(code int) {
	r.WithWrite(func(res *Response) { res.Status(code) })
}

// SetHeader sets a response header.
func (r *Res) SetHeader(key, value string) {
	r.WithWrite(func(res *Response) { res.SetHeader(key, value) })
}

// Header returns the current value of a response header, or "".
func (r *Res) Header(key string) string {
	return View(&r.Locked, func(res *Response) string { return res.Header(key) })
}

// RemoveHeader removes a response header.
func (r *Res) RemoveHeader(key string) {
	r.WithWrite(func(res *Response) { res.RemoveHeader(key) })
}

// Send writes the response with the given body and marks the response
// stopped. See Response.Send.
func (r *Res) Send(body string) error {
	var err error
	r.WithWrite(func(res *Response) { err = res.Send(body) })
	return err
}

// JSON serializes v as JSON, writes it, and marks the response stopped. See
// Response.JSON.
func (r *Res) JSON(v any) error {
	var err error
	r.WithWrite(func(res *Response) { err = res.JSON(v) })
	return err
}

// Stopped reports whether the response has been marked stopped. The chain
// executor consults this before every entry.
func (r *Res) Stopped() bool {
	return View(&r.Locked, func(res *Response) bool { return res.Stopped() })
}

// Written reports whether the response has been serialized to the stream.
func (r *Res) Written() bool {
	return View(&r.Locked, func(res *Response) bool { return res.Written() })
}

// StatusCode returns the current status code.
func (r *Res) StatusCode() int {
	return View(&r.Locked, func(res *Response) int { return res.StatusCode() })
}
