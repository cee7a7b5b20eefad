package middleware

import (
	"strings"

	"github.com/Suhaibinator/SServe/pkg/common"
	"github.com/Suhaibinator/SServe/pkg/state"
)

// Authentication creates a middleware that validates a bearer token from the
// Authorization header. A request without a valid token is answered with 401
// and the chain does not continue; otherwise the chain proceeds normally.
func Authentication(validate func(token string) bool) common.Middleware {
	return func(req *state.Req, res *state.Res, next common.Next) {
		header := req.HeaderValue("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")

		if header == "" || !validate(token) {
			res.Status(401)
			res.Send("Unauthorized")
			return
		}

		next()
	}
}
