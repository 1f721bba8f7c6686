// AngelaMos | 2026
// logging.go

package core

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Logger returns the request-scoped logger, or slog.Default when none is set.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
