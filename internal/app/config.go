package app

import (
	"errors"
	"time"

	"github.com/vk/patchbaygo/internal/engine"
)

// Command selects what an App invocation does.
type Command string

const (
	CommandPlay        Command = "play"
	CommandRender      Command = "render"
	CommandListModules Command = "list-modules"
	CommandListPatches Command = "list-patches"
	CommandListDevices Command = "list-devices"
	CommandSearch      Command = "search"
	CommandFavorite    Command = "favorite"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command   Command
	PatchPath string // hcl file or directory

	LibraryPath string // patch library root for list-patches
	RenderPath  string // output WAV for the render command
	Duration    time.Duration
	Query       string // search term or module type to favorite
	UsagePath   string // "" picks the per-user default

	Device     string // output device name, "" picks the system default
	SampleRate int
	BlockSize  int

	LogFormat  string
	LogLevel   string
	StatusPort int
}

// NewConfig validates a Config and fills in engine defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandPlay, CommandRender:
		if cfg.PatchPath == "" {
			return nil, errors.New("a patch path is required")
		}
	case CommandSearch, CommandFavorite:
		if cfg.Query == "" {
			return nil, errors.New("a query is required")
		}
	case CommandListModules, CommandListPatches, CommandListDevices:
	default:
		return nil, errors.New("unknown command")
	}

	if cfg.Command == CommandRender {
		if cfg.RenderPath == "" {
			return nil, errors.New("an output path is required for rendering")
		}
		if cfg.Duration <= 0 {
			return nil, errors.New("a positive duration is required for rendering")
		}
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = engine.DefaultSampleRate
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = engine.DefaultBlockSize
	}

	return &cfg, nil
}
