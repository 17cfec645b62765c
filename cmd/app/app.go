// Package app carries the loaded configuration and logger between commands
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TFMV/forcegraph/config"
)

type contextKey struct{}

// App is the state shared by every subcommand
type App struct {
	Config *config.Config
	Logger *zap.Logger
}

// WithApp returns a context carrying a
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the App stored in ctx, or defaults when none is set
func FromContext(ctx context.Context) *App {
	if a, ok := ctx.Value(contextKey{}).(*App); ok {
		return a
	}
	return &App{Config: config.Default(), Logger: zap.NewNop()}
}

// NewLogger builds a zap logger writing to stderr. debug forces the debug
// level whatever the configured one
func NewLogger(cfg config.Logging, debug bool) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Development || debug {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if debug {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	// stdout may carry rendered output
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build(zap.AddStacktrace(zap.ErrorLevel))
}
