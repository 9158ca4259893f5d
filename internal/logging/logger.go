// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/zap"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds the Logger selected by backend. An empty backend means slog.
func New(backend string, debug bool) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		var (
			l   *zap.Logger
			err error
		)
		if debug {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		return NewZapLogger(l), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Flush writes out entries buffered by l. Backends without a buffer are a no-op.
func Flush(l Logger) error {
	if s, ok := l.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}
