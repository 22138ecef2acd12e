package static

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
)

// Assets serves the built browser bundle: the page, the wasm module and the
// wasm_exec.js loader.
type Assets struct {
	files fs.FS
}

func New(files fs.FS) *Assets {
	return &Assets{files: files}
}

// Register serves assets under /static/ and the page at /.
func (a *Assets) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /static/", func(w http.ResponseWriter, r *http.Request) {
		a.serve(w, r, strings.TrimPrefix(r.URL.Path, "/static/"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		a.serve(w, r, "index.html")
	})
}

func (a *Assets) serve(w http.ResponseWriter, r *http.Request, name string) {
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}
	body, err := fs.ReadFile(a.files, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "failed to read static asset", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf(`"%x"`, sha256.Sum256(body))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("Cache-Control", "public, max-age=0, no-cache")
	w.Header().Set("ETag", etag)
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(r.Context(), "failed to write static asset", "name", name, "error", err)
	}
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".wasm":
		return "application/wasm"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
