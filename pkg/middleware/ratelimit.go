package middleware

import (
	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
	"go.uber.org/ratelimit"
)

// RateLimit creates a middleware that paces requests through a shared leaky
// bucket using Uber's ratelimit library. A request arriving above the
// configured rate blocks until its slot comes up, which slows the worker
// handling it; combined with the bounded dispatcher queue this backpressures
// the acceptor rather than rejecting requests.
func RateLimit(rps int) common.Middleware {
	limiter := ratelimit.New(rps)

	return func(req *state.Req, res *state.Res, next common.Next) {
		limiter.Take()
		next()
	}
}
