package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticFileServer serves files from dir and falls back to fallbackPath for
// unknown paths so client-side routes resolve to the single page app.
func StaticFileServer(dir string, fallbackPath string) (http.Handler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}

	fs := http.FileServer(http.Dir(dir))
	fallback := filepath.Join(dir, filepath.FromSlash(fallbackPath))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, fallback)
	}), nil
}
