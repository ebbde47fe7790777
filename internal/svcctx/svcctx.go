// Package svcctx provides service context for dependency injection via context.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/ballotmaker/internal/config"
	"github.com/jackzampolin/ballotmaker/internal/home"
	"github.com/jackzampolin/ballotmaker/internal/output"
)

// Services holds what every command runs with.
// Components extract what they need via the individual extractors.
type Services struct {
	Config *config.Manager
	Logger *slog.Logger
	Home   *home.Dir
	Format output.Format
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// LoggerFrom extracts the logger from context, falling back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ConfigFrom extracts the current configuration from context.
func ConfigFrom(ctx context.Context) *config.Config {
	if s := ServicesFrom(ctx); s != nil && s.Config != nil {
		return s.Config.Get()
	}
	return config.DefaultConfig()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// FormatFrom extracts the output format from context.
func FormatFrom(ctx context.Context) output.Format {
	if s := ServicesFrom(ctx); s != nil && s.Format != "" {
		return s.Format
	}
	return output.Default
}
