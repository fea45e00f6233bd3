// Package static serves the embedded frontend build.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/samber/lo"
)

//go:embed dist
var dist embed.FS

var assetExts = []string{".js", ".css", ".svg", ".ico", ".png", ".jpg", ".webp", ".woff2", ".txt", ".map", ".json"}

// Handler serves assets by path and index.html for every other route, so
// that client-side routing works.
func Handler() http.Handler {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		return http.NotFoundHandler()
	}
	fileServer := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/assets/") || lo.Contains(assetExts, path.Ext(r.URL.Path)) {
			fileServer.ServeHTTP(w, r)
			return
		}
		// serve index directly, FileServer would redirect "/index.html" to "/"
		b, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})
}
