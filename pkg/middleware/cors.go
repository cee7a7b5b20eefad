// Package middleware provides a collection of middleware components for the
// SServe framework.
package middleware

import (
	"strings"

	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
)

// CORSConfig defines the origin allow-list for the CORS middleware. The
// configuration is read-only once the middleware is built.
type CORSConfig struct {
	// AllowedOrigins is the set of origins that receive CORS headers. The
	// single entry "*" allows every origin.
	AllowedOrigins []string

	// AllowedMethods is sent in Access-Control-Allow-Methods. Defaults to
	// GET, POST, PUT, DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders is sent in Access-Control-Allow-Headers when non-empty.
	AllowedHeaders []string
}

// CORS creates a middleware implementing origin allow-listing and preflight
// handling.
//
// For an allowed origin it sets Access-Control-Allow-Origin and the
// companion headers on the response. An OPTIONS preflight is answered
// immediately with 204 and the response is stopped, bypassing the rest of
// the chain. A disallowed origin gets no CORS headers, but the chain still
// continues: enforcement is the browser's job, not the framework's.
func CORS(cfg CORSConfig) common.Middleware {
	allowAll := false
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	if methods == "" {
		methods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(req *state.Req, res *state.Res, next common.Next) {
		origin := req.HeaderValue("Origin")

		if allowAll || originAllowed(allowed, origin) {
			allowOrigin := origin
			if allowAll {
				allowOrigin = "*"
			}
			res.SetHeader("Access-Control-Allow-Origin", allowOrigin)
			res.SetHeader("Access-Control-Allow-Methods", methods)
			if headers != "" {
				res.SetHeader("Access-Control-Allow-Headers", headers)
			}
		}

		if req.Method() == "OPTIONS" {
			res.Status(204)
			res.Send("")
			return
		}

		next()
	}
}

func originAllowed(allowed map[string]struct{}, origin string) bool {
	if origin == "" {
		return false
	}
	_, ok := allowed[origin]
	return ok
}
