// Package samplehold applies random pitch jumps to its input. A clock at
// rate_hz picks a new playback-rate multiplier inside +/- depth semitones;
// between jumps the block is resampled with linear interpolation.
package samplehold

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a samplehold block.
type Params struct {
	RateHz float64 `hcl:"rate_hz,optional"`

	// Depth is the modulation range in semitones either side of unison.
	Depth float64 `hcl:"depth,optional"`
}

// SampleHold retunes its input at random on a fixed clock.
type SampleHold struct {
	engine.Node

	in         *engine.Inlet
	sampleRate int
	rateHz     float64
	depth      float64
	rng        *rand.Rand

	phase float64
	shift float64
}

// New builds a sample-and-hold from decoded parameters.
func New(p *Params, cfg engine.Config) (*SampleHold, error) {
	if p.RateHz <= 0 {
		return nil, fmt.Errorf("rate_hz must be positive, got %g", p.RateHz)
	}
	if p.Depth < 0 {
		return nil, fmt.Errorf("depth must not be negative, got %g", p.Depth)
	}

	s := &SampleHold{
		sampleRate: cfg.SampleRate,
		rateHz:     p.RateHz,
		depth:      p.Depth,
		rng:        rand.New(rand.NewSource(rand.Int63())),
		shift:      1,
	}
	s.in = s.AddInlet(engine.DefaultInlet)
	s.AddOutlet(engine.DefaultOutlet, s)
	return s, nil
}

// Generate resamples one block of the input at the held rate.
func (s *SampleHold) Generate(frames int) engine.Buffer {
	in := s.in.Pull(frames)
	if frames < 2 {
		return in
	}
	out := engine.NewBuffer(frames)

	for i := 0; i < frames; i++ {
		s.phase += s.rateHz / float64(s.sampleRate)
		if s.phase >= 1 {
			s.phase -= 1
			semitones := (s.rng.Float64() - 0.5) * s.depth
			s.shift = math.Pow(2, semitones/12)
		}

		src := float64(i) * s.shift
		if src >= float64(frames-1) {
			src = float64(frames-1) - 1e-3
		}
		idx := int(src)
		frac := float32(src - float64(idx))

		for ch := 0; ch < engine.Channels; ch++ {
			a := in[engine.Channels*idx+ch]
			b := in[engine.Channels*(idx+1)+ch]
			out[engine.Channels*i+ch] = a*(1-frac) + b*frac
		}
	}
	return out
}

// Register registers the sample-and-hold with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "sample_hold",
		Category: "Effects",
		Summary:  "Random pitch jumps on a fixed clock.",
		NewParams: func() any {
			return &Params{RateHz: 2, Depth: 12}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
