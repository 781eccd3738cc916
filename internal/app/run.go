package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/patchbaygo/internal/audio"
	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/library"
	"github.com/vk/patchbaygo/internal/render"
	"github.com/vk/patchbaygo/internal/usage"
)

// Run executes the configured command. It blocks until the command finishes
// or the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "session", a.sessionID)

	var err error
	switch a.config.Command {
	case CommandPlay:
		err = a.runPlay(ctx)
	case CommandRender:
		err = a.runRender(ctx)
	case CommandListModules:
		err = a.runListModules(ctx)
	case CommandListPatches:
		err = a.runListPatches(ctx)
	case CommandListDevices:
		err = a.runListDevices(ctx)
	case CommandSearch:
		err = a.runSearch(ctx)
	case CommandFavorite:
		err = a.runFavorite(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

// runPlay builds the patch and streams it to the default output device until
// the context is cancelled or the optional duration elapses.
func (a *App) runPlay(ctx context.Context) error {
	built, err := a.loadPatch(ctx)
	if err != nil {
		return err
	}
	defer built.Graph.Close()

	if a.config.StatusPort > 0 {
		a.startStatusServer(a.config.StatusPort)
	}

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	out, err := audio.Open(ctx, built.Mixer, a.engineConfig(), a.config.BlockSize, a.config.Device)
	if err != nil {
		return err
	}
	defer out.Close()

	a.logger.Info("🎛 Playing.", "patch", built.Patch.Name, "session", a.sessionID)

	if a.config.Duration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(a.config.Duration):
		}
	} else {
		<-ctx.Done()
	}

	a.logger.Info("Playback stopped.")
	return nil
}

// runRender builds the patch and renders it offline to a WAV file.
func (a *App) runRender(ctx context.Context) error {
	built, err := a.loadPatch(ctx)
	if err != nil {
		return err
	}
	defer built.Graph.Close()

	opts := render.Options{
		Duration:  a.config.Duration,
		BlockSize: a.config.BlockSize,
	}
	return render.ToFile(ctx, built.Mixer, a.engineConfig(), opts, a.config.RenderPath)
}

// runListModules prints the module catalog grouped by category, with usage
// annotations from the tracker.
func (a *App) runListModules(ctx context.Context) error {
	quick := a.usage.QuickAccess(usage.MaxQuickAccess)
	if len(quick) > 0 {
		fmt.Fprintln(a.outW, "Quick access:")
		for _, typeKey := range quick {
			if info, ok := a.registry.Get(typeKey); ok {
				fmt.Fprintf(a.outW, "  %s\n", info.DisplayName())
			}
		}
		fmt.Fprintln(a.outW)
	}

	for _, category := range a.registry.Categories() {
		fmt.Fprintf(a.outW, "%s:\n", category)
		for _, info := range a.registry.InCategory(category) {
			marker := " "
			if a.usage.IsFavorite(info.Type) {
				marker = "*"
			}
			fmt.Fprintf(a.outW, "  %s %-18s %s\n", marker, info.DisplayName(), info.Summary)
		}
	}
	return nil
}

// runListPatches scans the patch library and prints it grouped by category.
func (a *App) runListPatches(ctx context.Context) error {
	lib, err := library.Scan(ctx, a.config.LibraryPath)
	if err != nil {
		return fmt.Errorf("failed to scan patch library: %w", err)
	}

	for _, category := range lib.Categories() {
		fmt.Fprintf(a.outW, "%s:\n", category)
		for _, entry := range lib.InCategory(category) {
			fmt.Fprintf(a.outW, "  %s\n", entry.DisplayName())
		}
	}
	return nil
}

// runListDevices prints the playback-capable audio devices.
func (a *App) runListDevices(ctx context.Context) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	devices, err := audio.Devices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		marker := " "
		if dev.Default {
			marker = "*"
		}
		fmt.Fprintf(a.outW, "%s %2d  %s (%s, %d ch, %.0f Hz)\n",
			marker, dev.Index, dev.Name, dev.HostAPI, dev.Channels, dev.SampleRate)
	}
	return nil
}

// runSearch matches the query against module names and, when a library path
// is set, patch names.
func (a *App) runSearch(ctx context.Context) error {
	for _, info := range a.registry.Search(a.config.Query) {
		fmt.Fprintf(a.outW, "module  %-18s %s\n", info.DisplayName(), info.Summary)
	}

	if a.config.LibraryPath != "" {
		lib, err := library.Scan(ctx, a.config.LibraryPath)
		if err != nil {
			return fmt.Errorf("failed to scan patch library: %w", err)
		}
		for _, entry := range lib.Search(a.config.Query) {
			fmt.Fprintf(a.outW, "patch   %-18s %s\n", entry.DisplayName(), entry.Category)
		}
	}
	return nil
}

// runFavorite toggles the favorite flag of a module type.
func (a *App) runFavorite(ctx context.Context) error {
	typeKey := a.config.Query
	if _, ok := a.registry.Get(typeKey); !ok {
		return fmt.Errorf("unknown module type %q", typeKey)
	}

	favorite, err := a.usage.ToggleFavorite(typeKey)
	if err != nil {
		return err
	}
	if favorite {
		fmt.Fprintf(a.outW, "%s is now a favorite\n", typeKey)
	} else {
		fmt.Fprintf(a.outW, "%s is no longer a favorite\n", typeKey)
	}
	return nil
}
