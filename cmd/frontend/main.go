// Command frontend answers POST / with {"hello":"hello"} and serves the
// FRONTEND_DIR directory for every other path.
package main

import (
	"net/http"
	"os"

	"github.com/janisto/huma-hello/internal/platform/config"
	"github.com/janisto/huma-hello/internal/server"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func newOptions(cfg config.Config) server.Options {
	return server.Options{
		Title:          "Hello Frontend",
		Version:        Version,
		Method:         http.MethodPost,
		StaticDir:      cfg.FrontendDir,
		AllowedOrigins: cfg.AllowedOrigins,
	}
}

func main() {
	os.Exit(server.Main(newOptions))
}
