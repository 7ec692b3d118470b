// Package static serves a frontend directory for every request no API route matches.
package static

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"

	applog "github.com/janisto/huma-hello/internal/platform/logging"
	"github.com/janisto/huma-hello/internal/platform/respond"
)

const (
	indexFile    = "index.html"
	notFoundFile = "404.html"
)

// Handler serves files from a directory. Directory requests are answered with
// their index.html; misses fall back to the directory's 404.html, then to a
// problem response.
type Handler struct {
	fsys fs.FS
}

// New returns a Handler rooted at dir. A missing dir is logged but not fatal:
// every request then resolves to 404.
func New(dir string) *Handler {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		applog.LogWarn(context.Background(), "static directory unavailable", zap.String("dir", dir), zap.Error(err))
	}
	return NewFS(os.DirFS(dir))
}

// NewFS returns a Handler serving fsys.
func NewFS(fsys fs.FS) *Handler {
	return &Handler{fsys: fsys}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, r)
		return
	}

	name, isDirRequest := resolve(r.URL.Path)
	if name == "" {
		h.notFound(w, r)
		return
	}

	info, err := fs.Stat(h.fsys, name)
	if err != nil {
		h.notFound(w, r)
		return
	}

	if info.IsDir() {
		index := path.Join(name, indexFile)
		indexInfo, err := fs.Stat(h.fsys, index)
		if err != nil || indexInfo.IsDir() {
			h.notFound(w, r)
			return
		}
		if !isDirRequest {
			// Built from the cleaned name so "//host" never becomes a protocol-relative Location.
			respond.WriteRedirect(w, r, "/"+name+"/", http.StatusTemporaryRedirect)
			return
		}
		name = index
	}

	if err := h.serveFile(w, r, name, http.StatusOK); err != nil {
		applog.LogError(r.Context(), "failed to serve static file", err, zap.String("file", name))
		h.notFound(w, r)
	}
}

// resolve maps a URL path to an fs.FS name. It returns "" for paths that do
// not name anything inside the root. isDirRequest reports a trailing slash.
func resolve(urlPath string) (name string, isDirRequest bool) {
	if strings.Contains(urlPath, "\x00") || strings.Contains(urlPath, "\\") {
		return "", false
	}
	isDirRequest = urlPath == "" || strings.HasSuffix(urlPath, "/")
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." {
			return "", false
		}
	}
	name = strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, isDirRequest
}

// serveFile writes name with status. 200 responses go through
// http.ServeContent for Range and conditional request support.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name string, status int) error {
	f, err := h.fsys.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	// Revalidate static assets instead of the API-wide no-store.
	w.Header().Set("Cache-Control", "no-cache")

	rs, seekable := f.(io.ReadSeeker)
	if status == http.StatusOK && seekable {
		http.ServeContent(w, r, info.Name(), info.ModTime(), rs)
		return nil
	}

	if ct := mime.TypeByExtension(path.Ext(info.Name())); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := io.Copy(w, f); err != nil {
		applog.LogWarn(r.Context(), "static copy interrupted", zap.String("file", name), zap.Error(err))
	}
	return nil
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	if info, err := fs.Stat(h.fsys, notFoundFile); err == nil && !info.IsDir() {
		err = h.serveFile(w, r, notFoundFile, http.StatusNotFound)
		if err == nil {
			return
		}
		applog.LogError(r.Context(), "failed to serve 404 page", err)
	}
	respond.NotFoundHandler().ServeHTTP(w, r)
}

// methodNotAllowed answers non-GET requests. Allow merges the static methods
// with whatever chi routes for the same path (e.g. POST on "/").
func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allow := []string{http.MethodGet, http.MethodHead}
	for _, m := range respond.AllowedMethods(r) {
		if !slices.Contains(allow, m) {
			allow = append(allow, m)
		}
	}
	respond.WriteMethodNotAllowed(w, r, allow...)
}
