package patch

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/mixer"
	"github.com/vk/patchbaygo/internal/registry"
)

// Built is the runnable form of a patch.
type Built struct {
	Patch *Patch
	Graph *engine.Graph
	Mixer *mixer.Mixer

	// Spawned lists the module type key of every instance created, in patch
	// order, for the usage tracker.
	Spawned []string
}

// Build instantiates every module block through the registry, wires the
// connections, and populates the mixer channels. It fails on unknown module
// types, bad addresses, and cyclic wiring.
func Build(ctx context.Context, p *Patch, reg *registry.Registry, cfg engine.Config) (*Built, error) {
	logger := ctxlog.FromContext(ctx)

	built := &Built{
		Patch: p,
		Graph: engine.NewGraph(),
		Mixer: mixer.New(),
	}
	evalCtx := evalContext(cfg)

	for _, block := range p.Modules {
		info, ok := reg.Get(block.Type)
		if !ok {
			return nil, fmt.Errorf("module %q: unknown module type %q", block.Name, block.Type)
		}

		params := info.NewParams()
		if diags := gohcl.DecodeBody(block.Params, evalCtx, params); diags.HasErrors() {
			return nil, fmt.Errorf("module %q: failed to decode parameters: %w", block.Name, diags)
		}

		instance, err := info.New(params, cfg)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", block.Name, err)
		}
		if err := built.Graph.Add(block.Name, instance); err != nil {
			return nil, err
		}
		built.Spawned = append(built.Spawned, block.Type)
		logger.Debug("Module instantiated.", "instance", block.Name, "type", block.Type)
	}

	for _, block := range p.Connects {
		from, err := ParsePortRef(block.From, engine.DefaultOutlet)
		if err != nil {
			return nil, fmt.Errorf("connect from: %w", err)
		}
		to, err := ParsePortRef(block.To, engine.DefaultInlet)
		if err != nil {
			return nil, fmt.Errorf("connect to: %w", err)
		}
		if err := built.Graph.Connect(from, to); err != nil {
			return nil, fmt.Errorf("connect %s -> %s: %w", block.From, block.To, err)
		}
	}

	if err := built.Graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("patch %q: %w", p.Name, err)
	}

	for _, block := range p.Channels {
		source, ok := built.Graph.Module(block.Source)
		if !ok {
			return nil, fmt.Errorf("channel %q: unknown source module %q", block.Name, block.Source)
		}

		strip := mixer.NewStrip(block.Name, source)
		strip.SetGainDB(block.GainDB)
		strip.SetPan(block.Pan)
		strip.SetMuted(block.Mute)
		if err := built.Mixer.AddStrip(strip); err != nil {
			return nil, fmt.Errorf("channel %q: %w", block.Name, err)
		}
	}

	if len(p.Channels) == 0 {
		logger.Warn("Patch has no channel blocks; the mixdown will be silent.", "patch", p.Name)
	}

	return built, nil
}

// evalContext exposes the stream parameters to patch expressions, so a block
// can write e.g. `delay_frames = sample_rate / 2`.
func evalContext(cfg engine.Config) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"sample_rate": cty.NumberIntVal(int64(cfg.SampleRate)),
		},
	}
}
