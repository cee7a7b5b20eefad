package server

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/Suhaibinator/SServe/pkg/state"
)

// serveStatic resolves the request path against the static root and writes
// the file when it exists. "/" maps to index.html. It reports whether a
// response was written; a missing file leaves the response untouched so the
// caller falls through to 404.
func (s *Server) serveStatic(reqPath string, res *state.Res) bool {
	// Clean keeps the resolved path inside the root: ".." cannot escape an
	// absolute path once cleaned.
	rel := filepath.Clean("/" + reqPath)
	if rel == "/" {
		rel = "/index.html"
	}

	full := filepath.Join(s.config.StaticRoot, rel)
	data, err := os.ReadFile(full)
	if err != nil {
		return false
	}

	contentType := mime.TypeByExtension(filepath.Ext(full))
	if contentType == "" {
		contentType = "text/plain"
	}
	res.SetHeader("Content-Type", contentType)
	_ = res.Send(string(data))
	return true
}
