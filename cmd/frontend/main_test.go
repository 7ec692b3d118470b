package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janisto/huma-hello/internal/platform/config"
	"github.com/janisto/huma-hello/internal/server"
)

func TestNewHandlerServesPostHelloAndFrontend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}
	h := server.NewRouter(newOptions(config.Config{FrontendDir: dir}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != `{"hello":"hello"}` {
		t.Fatalf(`expected {"hello":"hello"}, got %s`, body)
	}

	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "<h1>hi</h1>" {
		t.Fatalf("expected index.html, got %q", body)
	}
}
