// Package chain executes the ordered middleware sequence of one request:
// global middleware, then route middleware, then the terminal handler.
//
// The continuation model is an explicit index held by the Chain. Each entry
// receives the shared request and response handles plus a Next continuation;
// invoking Next advances the index and runs the entry there. An entry that
// returns without invoking Next halts the chain implicitly — later entries
// never run, and nothing further is written. Separately, the executor checks
// the response's stopped flag before invoking every entry (the terminal
// handler included) and halts as soon as it is set.
//
// Execution is strictly sequential within one request; no two entries of the
// same chain ever run concurrently.
package chain

import (
	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
)

// Chain is the per-request middleware sequence. It is constructed for one
// matched (or not-found) request and discarded after Run returns.
type Chain struct {
	req     *state.Req
	res     *state.Res
	entries []common.Middleware
	handler common.Handler
	index   int
}

// New builds a chain from the combined middleware list and the terminal
// handler.
func New(req *state.Req, res *state.Res, entries []common.Middleware, handler common.Handler) *Chain {
	return &Chain{
		req:     req,
		res:     res,
		entries: entries,
		handler: handler,
	}
}

// Run executes the chain from the first entry.
func (c *Chain) Run() {
	c.next()
}

// next advances the chain by one entry. It is handed to each middleware as
// its continuation.
func (c *Chain) next() {
	if c.res.Stopped() {
		return
	}

	if c.index < len(c.entries) {
		mw := c.entries[c.index]
		c.index++
		mw(c.req, c.res, c.next)
		return
	}

	if c.index == len(c.entries) {
		c.index++
		c.handler(c.req, c.res)
	}
}
