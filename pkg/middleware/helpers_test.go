package middleware

import (
	"bytes"
	"strings"

	"github.com/Suhaibinator/SServe/pkg/state"
)

func newTestReq(method, path string, headers map[string]string) *state.Req {
	lowered := map[string]string{}
	for k, v := range headers {
		lowered[strings.ToLower(k)] = v
	}
	return state.NewReq(&state.Request{
		Method:     method,
		Path:       path,
		PathParams: map[string]string{},
		Query:      map[string]string{},
		Headers:    lowered,
	})
}

func newTestRes() (*state.Res, *bytes.Buffer) {
	var buf bytes.Buffer
	return state.NewRes(state.NewResponse(&buf)), &buf
}
