// Package delay provides a feedback echo with a circular stereo buffer.
package delay

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a delay block.
type Params struct {
	TimeMS   float64 `hcl:"time_ms,optional"`
	Feedback float64 `hcl:"feedback,optional"`
	Mix      float64 `hcl:"mix,optional"`
}

// Delay echoes its input after time_ms, feeding part of the echo back in.
type Delay struct {
	engine.Node

	in       *engine.Inlet
	buffer   engine.Buffer
	frames   int
	write    int
	feedback float32
	mix      float32
}

// New builds a delay from decoded parameters.
func New(p *Params, cfg engine.Config) (*Delay, error) {
	if p.TimeMS <= 0 {
		return nil, fmt.Errorf("time_ms must be positive, got %g", p.TimeMS)
	}
	if p.Feedback < 0 || p.Feedback >= 1 {
		return nil, fmt.Errorf("feedback must be in [0, 1), got %g", p.Feedback)
	}
	if p.Mix < 0 || p.Mix > 1 {
		return nil, fmt.Errorf("mix must be in [0, 1], got %g", p.Mix)
	}

	frames := int(float64(cfg.SampleRate) * p.TimeMS / 1000)
	if frames < 1 {
		frames = 1
	}
	d := &Delay{
		buffer:   engine.NewBuffer(frames),
		frames:   frames,
		feedback: float32(p.Feedback),
		mix:      float32(p.Mix),
	}
	d.in = d.AddInlet(engine.DefaultInlet)
	d.AddOutlet(engine.DefaultOutlet, d)
	return d, nil
}

// Generate mixes the delayed signal into one block of the input.
func (d *Delay) Generate(frames int) engine.Buffer {
	out := d.in.Pull(frames)

	for i := 0; i < frames; i++ {
		for ch := 0; ch < engine.Channels; ch++ {
			idx := engine.Channels*i + ch
			dry := out[idx]
			wet := d.buffer[engine.Channels*d.write+ch]

			d.buffer[engine.Channels*d.write+ch] = dry + wet*d.feedback
			out[idx] = (1-d.mix)*dry + d.mix*wet
		}
		d.write = (d.write + 1) % d.frames
	}
	return out
}

// Register registers the delay with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "delay",
		Category: "Effects/Time",
		Summary:  "Feedback echo with wet/dry mix.",
		NewParams: func() any {
			return &Params{TimeMS: 300, Feedback: 0.4, Mix: 0.5}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
