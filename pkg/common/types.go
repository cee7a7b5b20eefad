// Package common provides shared types used across the SServe framework.
package common

import "github.com/Suhaibinator/SServe/pkg/state"

// Next is the continuation handed to each middleware. Invoking it advances
// the chain to the next entry; not invoking it halts the chain at that
// point.
type Next func()

// Handler is the terminal processing unit for a matched request. It receives
// the shared request and response handles.
type Handler func(req *state.Req, res *state.Res)

// Middleware is a processing unit placed before the terminal handler. It
// receives the shared handles and the continuation, and must invoke the
// continuation to let the chain proceed.
type Middleware func(req *state.Req, res *state.Res, next Next)
