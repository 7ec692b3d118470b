package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// withProjectID pins the cached project id for the duration of a test.
func withProjectID(t *testing.T, projectID string) {
	t.Helper()
	orig := cachedProjectID
	cachedProjectID = projectID
	projectIDOnce = sync.Once{}
	projectIDOnce.Do(func() {})
	t.Cleanup(func() { cachedProjectID = orig })
}

func withChiRequestID(id string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TestAccessLoggerUsesRequestLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	access := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(withRequestLogger(req.Context(), zap.New(core), ""))
	resp := httptest.NewRecorder()

	access.ServeHTTP(resp, req)

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "request completed" {
		t.Fatalf("unexpected log message: %s", entries[0].Message)
	}

	fields := fieldMap(entries[0])
	if f, ok := fields["status"]; !ok || f.Integer != http.StatusTeapot {
		t.Fatalf("expected status 418, got %+v", f)
	}
	if f, ok := fields["method"]; !ok || f.String != http.MethodPost {
		t.Fatalf("expected method POST, got %+v", f)
	}
	if f, ok := fields["bytes"]; !ok || f.Integer != 3 {
		t.Fatalf("expected 3 bytes, got %+v", f)
	}
	if _, ok := fields["duration"]; !ok {
		t.Fatalf("expected duration field, got %+v", fields)
	}
}

func TestRequestLoggerUsesTraceResource(t *testing.T) {
	withProjectID(t, "test-project")

	var got string
	handler := withChiRequestID("req-1", RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationIDFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("unexpected correlation ID: %q", got)
	}
}

func TestRequestLoggerFallsBackToRequestID(t *testing.T) {
	withProjectID(t, "")

	var got string
	handler := withChiRequestID("test-request-id", RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationIDFromContext(r.Context())
		if LoggerFromContext(r.Context()) == Logger() {
			t.Error("expected request-scoped logger, got global logger")
		}
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "test-request-id" {
		t.Fatalf("expected request ID as correlation ID, got %q", got)
	}
}
