//go:build !dev

package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed dist/*
var staticFiles embed.FS

// StaticHandler serves the embedded web board.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(staticFiles, "dist")
	return spaHandler(http.FS(fsys))
}
