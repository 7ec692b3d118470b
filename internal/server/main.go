package server

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/janisto/huma-hello/internal/platform/config"
	applog "github.com/janisto/huma-hello/internal/platform/logging"
)

// Main loads configuration, builds the router from newOptions and serves it
// until SIGINT or SIGTERM. It returns the process exit code.
func Main(newOptions func(config.Config) Options) int {
	ctx := context.Background()
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(ctx, "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogError(ctx, "config error", err)
		return 1
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.LogWarn(ctx, "ignoring LOG_LEVEL", zap.Error(err))
	}

	opts := newOptions(cfg)
	if opts.StaticDir != "" {
		applog.LogInfo(ctx, "serving static files", zap.String("dir", opts.StaticDir))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := NewHTTPServer(cfg.Addr(), NewRouter(opts))
	if err := Run(ctx, srv, cfg.ShutdownTimeout); err != nil {
		applog.LogError(context.Background(), "server failed", err, zap.String("addr", srv.Addr))
		return 1
	}
	return 0
}
