// Package reversedelay plays the recent past backwards under the dry signal.
// The write head and the reversed read head share one circular buffer and
// meet twice per pass, which gives the effect its characteristic sweep.
package reversedelay

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a reversedelay block.
type Params struct {
	TimeMS float64 `hcl:"time_ms,optional"`
	Mix    float64 `hcl:"mix,optional"`
}

// ReverseDelay mixes a time-reversed echo with the dry input.
type ReverseDelay struct {
	engine.Node

	in     *engine.Inlet
	buffer engine.Buffer
	frames int
	write  int
	mix    float32
}

// New builds a reverse delay from decoded parameters.
func New(p *Params, cfg engine.Config) (*ReverseDelay, error) {
	if p.TimeMS <= 0 {
		return nil, fmt.Errorf("time_ms must be positive, got %g", p.TimeMS)
	}
	if p.Mix < 0 || p.Mix > 1 {
		return nil, fmt.Errorf("mix must be in [0, 1], got %g", p.Mix)
	}

	frames := int(float64(cfg.SampleRate) * p.TimeMS / 1000)
	if frames < 1 {
		frames = 1
	}
	d := &ReverseDelay{
		buffer: engine.NewBuffer(frames),
		frames: frames,
		mix:    float32(p.Mix),
	}
	d.in = d.AddInlet(engine.DefaultInlet)
	d.AddOutlet(engine.DefaultOutlet, d)
	return d, nil
}

// Generate processes one block.
func (d *ReverseDelay) Generate(frames int) engine.Buffer {
	out := d.in.Pull(frames)

	for i := 0; i < frames; i++ {
		rev := (d.frames - 1 - d.write) % d.frames
		for ch := 0; ch < engine.Channels; ch++ {
			idx := engine.Channels*i + ch
			dry := out[idx]
			d.buffer[engine.Channels*d.write+ch] = dry
			out[idx] = (1-d.mix)*dry + d.mix*d.buffer[engine.Channels*rev+ch]
		}
		d.write = (d.write + 1) % d.frames
	}
	return out
}

// Register registers the reverse delay with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "reverse_delay",
		Category: "Effects/Time",
		Summary:  "Echoes the recent input played backwards.",
		NewParams: func() any {
			return &Params{TimeMS: 500, Mix: 0.5}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
