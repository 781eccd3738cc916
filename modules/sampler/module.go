// Package sampler plays a WAV file from disk, once or looped.
package sampler

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
	"github.com/vk/patchbaygo/internal/wav"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a sampler block.
type Params struct {
	Path string  `hcl:"path"`
	Loop bool    `hcl:"loop,optional"`
	Gain float64 `hcl:"gain,optional"`
}

// Sampler streams a decoded audio file block by block. After the final frame
// it either wraps to the start or settles into silence.
type Sampler struct {
	engine.Node

	data engine.Buffer
	loop bool
	gain float32
	pos  int
}

// New loads the file and builds a sampler.
func New(p *Params, cfg engine.Config) (*Sampler, error) {
	data, _, err := wav.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sample: %w", err)
	}
	s := &Sampler{data: data, loop: p.Loop, gain: float32(p.Gain)}
	s.AddOutlet(engine.DefaultOutlet, s)
	return s, nil
}

// FromBuffer builds a sampler over an already decoded buffer. Used by modules
// that synthesize their audio up front and then just play it back.
func FromBuffer(data engine.Buffer, loop bool, gain float32) *Sampler {
	s := &Sampler{data: data, loop: loop, gain: gain}
	s.AddOutlet(engine.DefaultOutlet, s)
	return s
}

// Rewind restarts playback from the first frame.
func (s *Sampler) Rewind() { s.pos = 0 }

// Done reports whether a non-looping sampler has played out.
func (s *Sampler) Done() bool {
	return !s.loop && s.pos >= s.data.Frames()
}

// Generate produces the next block of the file.
func (s *Sampler) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)
	total := s.data.Frames()
	if total == 0 {
		return out
	}

	for i := 0; i < frames; i++ {
		if s.pos >= total {
			if !s.loop {
				break
			}
			s.pos = 0
		}
		out[2*i] = s.data[2*s.pos] * s.gain
		out[2*i+1] = s.data[2*s.pos+1] * s.gain
		s.pos++
	}
	return out
}

// Register registers the sampler with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "sampler",
		Category: "Sources",
		Summary:  "WAV file playback, one-shot or looped.",
		NewParams: func() any {
			return &Params{Gain: 1}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
