package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/patch"
	"github.com/vk/patchbaygo/internal/registry"
	"github.com/vk/patchbaygo/internal/usage"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	usage     *usage.Tracker
	sessionID string
	startedAt time.Time

	// built holds the loaded patch after loadPatch, for the status server.
	built *patch.Built
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, config *Config, modules ...registry.Module) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All modules registered.", "count", len(modules))

	usagePath := config.UsagePath
	if usagePath == "" {
		var err error
		usagePath, err = usage.DefaultPath()
		if err != nil {
			logger.Warn("No usage data location available, statistics are session-only.", "error", err)
		}
	}
	tracker := usage.Open(ctx, usagePath)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    config,
		registry:  reg,
		usage:     tracker,
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Usage returns the usage tracker. This is primarily for testing.
func (a *App) Usage() *usage.Tracker {
	return a.usage
}

// engineConfig returns the stream parameters modules are built against.
func (a *App) engineConfig() engine.Config {
	return engine.Config{SampleRate: a.config.SampleRate}
}
