package api

import (
	"net/http"
	"path"
	"strings"
)

// spaHandler serves files from root. Unknown /api/ paths get a JSON 404;
// other paths without an extension get index.html.
func spaHandler(root http.FileSystem) http.Handler {
	fileServer := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			JSON(w, http.StatusNotFound, map[string]string{"error": "no such endpoint"})
			return
		}
		if r.URL.Path != "/" && path.Ext(r.URL.Path) == "" {
			r.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, r)
	})
}
