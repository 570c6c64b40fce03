//go:build dev

package api

import (
	"net/http"
	"os"
)

// StaticHandler serves the web board from disk so edits show up on reload.
// LANES_WEB_DIR overrides the directory.
func (h *Handler) StaticHandler() http.Handler {
	dir := os.Getenv("LANES_WEB_DIR")
	if dir == "" {
		dir = "internal/api/dist"
	}
	h.logger.WithField("dir", dir).Info("serving web board from disk")
	return spaHandler(http.Dir(dir))
}
