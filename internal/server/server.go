// Package server assembles the router, middleware stack and huma API shared
// by the hello entry points, and runs the HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/huma-hello/internal/http/health"
	"github.com/janisto/huma-hello/internal/http/hello"
	"github.com/janisto/huma-hello/internal/http/static"
	applog "github.com/janisto/huma-hello/internal/platform/logging"
	appmiddleware "github.com/janisto/huma-hello/internal/platform/middleware"
	"github.com/janisto/huma-hello/internal/platform/respond"
)

// DocsPath serves the interactive API documentation.
const DocsPath = "/api-docs"

// Options selects the variant a router is built for.
type Options struct {
	// Title and Version describe the OpenAPI document.
	Title   string
	Version string
	// Method is the HTTP method of the hello route on "/".
	Method string
	// StaticDir, when set, is served for every request no route matches.
	StaticDir string
	// AllowedOrigins restricts CORS; empty allows any origin.
	AllowedOrigins []string
}

// NewRouter builds the handler for opts.
func NewRouter(opts Options) http.Handler {
	router := chi.NewRouter()
	if opts.StaticDir != "" {
		files := static.New(opts.StaticDir)
		router.NotFound(files.ServeHTTP)
		router.MethodNotAllowed(files.ServeHTTP)
	} else {
		router.NotFound(respond.NotFoundHandler())
		router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	}

	router.Use(
		appmiddleware.Security(DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(opts.AllowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For / X-Real-IP; deploy behind a proxy that sets them.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get(health.Path, health.Handler(opts.Version))
	router.Head(health.Path, health.Handler(opts.Version))

	api := humachi.New(router, apiConfig(opts.Title, opts.Version))
	hello.Register(api, opts.Method)
	return router
}

// apiConfig is huma's default config with the docs moved to DocsPath and the
// $schema link transformer removed, so bodies carry only their own fields.
func apiConfig(title, version string) huma.Config {
	cfg := huma.DefaultConfig(title, version)
	cfg.DocsPath = DocsPath
	cfg.CreateHooks = nil
	cfg.OnAddOperation = append(cfg.OnAddOperation, advertiseCBOR)
	return cfg
}

// advertiseCBOR documents application/cbor next to every JSON body in the
// OpenAPI spec; the formats/cbor import makes huma actually serve it.
func advertiseCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

// NewHTTPServer wraps handler in an http.Server with production timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// Run serves srv until ctx is cancelled, then shuts it down within
// shutdownTimeout. A listen failure is returned immediately.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
