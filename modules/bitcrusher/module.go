// Package bitcrusher reduces bit depth and sample rate for lo-fi grit.
// Quantization rounds to 2^bits levels; downsampling holds each value for
// sampleRate/downsample input samples.
package bitcrusher

import (
	"fmt"
	"math"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a bitcrusher block.
type Params struct {
	BitDepth   int `hcl:"bit_depth,optional"`
	Downsample int `hcl:"downsample,optional"`
}

// Bitcrusher quantizes and downsamples its input.
type Bitcrusher struct {
	engine.Node

	in     *engine.Inlet
	levels float32
	step   int

	phase int
	held  [engine.Channels]float32
}

// New builds a bitcrusher from decoded parameters.
func New(p *Params, cfg engine.Config) (*Bitcrusher, error) {
	if p.BitDepth < 1 || p.BitDepth > 16 {
		return nil, fmt.Errorf("bit_depth must be in [1, 16], got %d", p.BitDepth)
	}
	if p.Downsample < 1 {
		return nil, fmt.Errorf("downsample must be positive, got %d", p.Downsample)
	}

	step := cfg.SampleRate / p.Downsample
	if step < 1 {
		step = 1
	}
	b := &Bitcrusher{
		levels: float32(math.Pow(2, float64(p.BitDepth))),
		step:   step,
	}
	b.in = b.AddInlet(engine.DefaultInlet)
	b.AddOutlet(engine.DefaultOutlet, b)
	return b, nil
}

// Generate crushes one block of the input.
func (b *Bitcrusher) Generate(frames int) engine.Buffer {
	out := b.in.Pull(frames)

	for i := 0; i < frames; i++ {
		if b.phase == 0 {
			for ch := 0; ch < engine.Channels; ch++ {
				s := out[engine.Channels*i+ch]
				b.held[ch] = float32(math.Round(float64(s*b.levels))) / b.levels
			}
		}
		for ch := 0; ch < engine.Channels; ch++ {
			out[engine.Channels*i+ch] = b.held[ch]
		}
		b.phase = (b.phase + 1) % b.step
	}
	return out
}

// Register registers the bitcrusher with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "bitcrusher",
		Category: "Effects/Distortion",
		Summary:  "Bit depth and sample rate reduction.",
		NewParams: func() any {
			return &Params{BitDepth: 8, Downsample: 8000}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
