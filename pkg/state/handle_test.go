package state

import (
	"bytes"
	"sync"
	"testing"
)

func TestWithReadAndWithWrite(t *testing.T) {
	req := &Request{Method: "GET", Path: "/users"}
	handle := NewReq(req)

	// WithWrite gets mutable access
	handle.WithWrite(func(r *Request) {
		r.Path = "/accounts"
	})

	// WithRead observes the mutation
	var got string
	handle.WithRead(func(r *Request) {
		got = r.Path
	})
	if got != "/accounts" {
		t.Errorf("Expected path %q, got %q", "/accounts", got)
	}
}

func TestWithWriteReleasesLockOnPanic(t *testing.T) {
	handle := NewReq(&Request{Method: "GET"})

	func() {
		defer func() {
			if rec := recover(); rec == nil {
				t.Fatal("Expected panic to propagate out of WithWrite")
			}
		}()
		handle.WithWrite(func(r *Request) {
			panic("handler failure")
		})
	}()

	// The lock must have been released despite the panic; a second
	// exclusive acquisition would deadlock otherwise.
	done := make(chan struct{})
	go func() {
		handle.WithWrite(func(r *Request) {})
		close(done)
	}()
	<-done
}

func TestWithReadReleasesLockOnPanic(t *testing.T) {
	handle := NewReq(&Request{Method: "GET"})

	func() {
		defer func() {
			_ = recover()
		}()
		handle.WithRead(func(r *Request) {
			panic("reader failure")
		})
	}()

	done := make(chan struct{})
	go func() {
		handle.WithWrite(func(r *Request) {})
		close(done)
	}()
	<-done
}

func TestViewReturnsResult(t *testing.T) {
	handle := NewLocked(&Request{Method: "POST"})

	method := View(handle, func(r *Request) string { return r.Method })
	if method != "POST" {
		t.Errorf("Expected method %q, got %q", "POST", method)
	}
}

func TestManualLocking(t *testing.T) {
	handle := NewReq(&Request{Method: "GET"})

	r := handle.Lock()
	r.Path = "/manual"
	handle.Unlock()

	r2 := handle.RLock()
	if r2.Path != "/manual" {
		t.Errorf("Expected path %q, got %q", "/manual", r2.Path)
	}
	handle.RUnlock()
}

func TestConcurrentAccess(t *testing.T) {
	handle := NewReq(&Request{Method: "GET", PathParams: map[string]string{}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			handle.WithWrite(func(r *Request) {
				r.PathParams["id"] = "42"
			})
		}()
		go func() {
			defer wg.Done()
			handle.WithRead(func(r *Request) {
				_ = r.PathParams["id"]
			})
		}()
	}
	wg.Wait()

	if got := handle.Param("id"); got != "42" {
		t.Errorf("Expected param %q, got %q", "42", got)
	}
}

func TestReqAccessors(t *testing.T) {
	req := &Request{
		Method:     "GET",
		Path:       "/user/42",
		PathParams: map[string]string{"id": "42"},
		Query:      map[string]string{"page": "2"},
		Headers:    map[string]string{"x-api-key": "secret"},
		Body:       "payload",
	}
	handle := NewReq(req)

	if handle.Method() != "GET" {
		t.Errorf("Expected method GET, got %q", handle.Method())
	}
	if handle.Path() != "/user/42" {
		t.Errorf("Expected path /user/42, got %q", handle.Path())
	}
	if handle.Param("id") != "42" {
		t.Errorf("Expected param id=42, got %q", handle.Param("id"))
	}
	if handle.QueryValue("page") != "2" {
		t.Errorf("Expected query page=2, got %q", handle.QueryValue("page"))
	}
	if handle.HeaderValue("X-Api-Key") != "secret" {
		t.Errorf("Expected case-insensitive header lookup, got %q", handle.HeaderValue("X-Api-Key"))
	}
	if handle.BodyString() != "payload" {
		t.Errorf("Expected body %q, got %q", "payload", handle.BodyString())
	}
}

func TestRequestScopedValues(t *testing.T) {
	handle := NewReq(&Request{Method: "GET"})

	if handle.Value("missing") != nil {
		t.Error("Expected nil for a value that was never set")
	}

	handle.SetValue("user", "alice")
	if got := handle.Value("user"); got != "alice" {
		t.Errorf("Expected value %q, got %v", "alice", got)
	}
}

func TestResHandle(t *testing.T) {
	var buf bytes.Buffer
	res := NewRes(NewResponse(&buf))

	if res.StatusCode() != 200 {
		t.Errorf("Expected default status 200, got %d", res.StatusCode())
	}
	if res.Stopped() {
		t.Error("Expected a fresh response to not be stopped")
	}

	res.Status(201)
	res.SetHeader("X-Test", "value")
	if err := res.Send("created"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if !res.Stopped() {
		t.Error("Expected response to be stopped after Send")
	}
	if !res.Written() {
		t.Error("Expected response to be written after Send")
	}
}
