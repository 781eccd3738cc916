package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/patchbaygo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("patchbay", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Patchbay - A modular audio synthesizer driven by patch files.

Usage:
  patchbay [options] [PATCH_PATH]

Arguments:
  PATCH_PATH
    Path to a single .hcl patch file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	patchFlag := flagSet.String("patch", "", "Path to the patch file or directory.")
	pFlag := flagSet.String("p", "", "Path to the patch file or directory (shorthand).")
	renderFlag := flagSet.String("render", "", "Render offline to this WAV file instead of playing.")
	durationFlag := flagSet.Duration("duration", 0, "Playback or render length. 0 plays until interrupted.")
	libraryFlag := flagSet.String("library", "patches", "Path to the patch library directory.")
	listModulesFlag := flagSet.Bool("list-modules", false, "Print the module catalog and exit.")
	listPatchesFlag := flagSet.Bool("list-patches", false, "Print the patch library and exit.")
	listDevicesFlag := flagSet.Bool("list-devices", false, "Print the playback devices and exit.")
	searchFlag := flagSet.String("search", "", "Search modules and patches by name.")
	favoriteFlag := flagSet.String("favorite", "", "Toggle the favorite flag of a module type.")
	usageFileFlag := flagSet.String("usage-file", "", "Usage statistics file. Empty picks the per-user default.")
	statusPortFlag := flagSet.Int("status-port", 0, "Port for the HTTP status server. 0 is disabled.")
	deviceFlag := flagSet.String("device", "", "Output device name (substring match). Empty picks the system default.")
	sampleRateFlag := flagSet.Int("sample-rate", 0, "Stream sample rate in Hz. 0 picks the engine default.")
	blockSizeFlag := flagSet.Int("block-size", 0, "Frames per audio block. 0 picks the engine default.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *patchFlag != "" {
		path = *patchFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Patch path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	command, query := resolveCommand(*listModulesFlag, *listPatchesFlag, *listDevicesFlag, *searchFlag, *favoriteFlag, *renderFlag)
	if command == app.CommandPlay && path == "" {
		slog.Debug("No patch path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	duration := *durationFlag
	if command == app.CommandRender && duration == 0 {
		duration = 10 * time.Second
	}

	config, err := app.NewConfig(app.Config{
		Command:     command,
		PatchPath:   path,
		LibraryPath: *libraryFlag,
		RenderPath:  *renderFlag,
		Duration:    duration,
		Query:       query,
		UsagePath:   *usageFileFlag,
		Device:      *deviceFlag,
		SampleRate:  *sampleRateFlag,
		BlockSize:   *blockSizeFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		StatusPort:  *statusPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}

// resolveCommand picks the command from the mode flags. Listing flags win
// over search and favorite, which win over render, which wins over play.
func resolveCommand(listModules, listPatches, listDevices bool, search, favorite, render string) (app.Command, string) {
	switch {
	case listModules:
		return app.CommandListModules, ""
	case listPatches:
		return app.CommandListPatches, ""
	case listDevices:
		return app.CommandListDevices, ""
	case search != "":
		return app.CommandSearch, search
	case favorite != "":
		return app.CommandFavorite, favorite
	case render != "":
		return app.CommandRender, ""
	default:
		return app.CommandPlay, ""
	}
}
