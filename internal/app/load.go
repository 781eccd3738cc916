package app

import (
	"context"
	"fmt"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/patch"
)

// loadPatch parses and builds the configured patch, then records every spawn
// with the usage tracker.
func (a *App) loadPatch(ctx context.Context) (*patch.Built, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading patch...", "path", a.config.PatchPath)

	p, err := patch.Load(ctx, a.config.PatchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load patch: %w", err)
	}

	built, err := patch.Build(ctx, p, a.registry, a.engineConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build patch %q: %w", p.Name, err)
	}
	logger.Info("Patch built.",
		"patch", p.Name,
		"modules", len(built.Graph.Names()),
		"channels", len(built.Mixer.Strips()),
	)

	for _, typeKey := range built.Spawned {
		if err := a.usage.RecordSpawn(typeKey); err != nil {
			logger.Warn("Could not record module spawn.", "type", typeKey, "error", err)
			break
		}
	}

	a.built = built
	return built, nil
}
