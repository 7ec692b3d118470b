package hello

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/huma-hello/internal/platform/logging"
)

// Path is where the hello operation is mounted.
const Path = "/"

// Register wires the hello operation for method (GET or POST) at Path.
// The request body, headers and query are ignored.
func Register(api huma.API, method string) {
	huma.Register(api, huma.Operation{
		OperationID: "hello",
		Method:      method,
		Path:        Path,
		Summary:     "Return the fixed hello payload",
		Tags:        []string{"hello"},
	}, handler)
}

func handler(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "hello", zap.String("path", Path))
	return &Output{Body: Data{Hello: Greeting}}, nil
}
