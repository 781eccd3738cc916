// Package lfo provides a low-frequency sine source for modulating other
// modules, for example a crossfade or sample-and-hold rate.
package lfo

import (
	"fmt"
	"math"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of an lfo block.
type Params struct {
	Frequency float64 `hcl:"frequency,optional"`
	Amplitude float64 `hcl:"amplitude,optional"`
}

// LFO is a phase-continuous sine generator, typically running below 20 Hz.
type LFO struct {
	engine.Node

	sampleRate int
	frequency  float64
	amplitude  float64
	phase      float64
}

// New builds an LFO from decoded parameters.
func New(p *Params, cfg engine.Config) (*LFO, error) {
	if p.Frequency <= 0 {
		return nil, fmt.Errorf("frequency must be positive, got %g", p.Frequency)
	}
	l := &LFO{
		sampleRate: cfg.SampleRate,
		frequency:  p.Frequency,
		amplitude:  p.Amplitude,
	}
	l.AddOutlet(engine.DefaultOutlet, l)
	return l, nil
}

// Generate produces one block of the sine.
func (l *LFO) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)
	inc := 2 * math.Pi * l.frequency / float64(l.sampleRate)

	for i := 0; i < frames; i++ {
		v := float32(l.amplitude * math.Sin(l.phase+inc*float64(i)))
		out[2*i] = v
		out[2*i+1] = v
	}

	l.phase = math.Mod(l.phase+inc*float64(frames), 2*math.Pi)
	return out
}

// Register registers the LFO with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "lfo",
		Category: "Sources",
		Summary:  "Low-frequency sine for modulation duty.",
		NewParams: func() any {
			return &Params{Frequency: 1, Amplitude: 0.5}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
