// Package crossfade blends two inputs linearly: mix 0 is all of input a,
// mix 1 all of input b.
package crossfade

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Inlet names.
const (
	InletA = "a"
	InletB = "b"
)

// Params defines the patch-file parameters of a crossfade block.
type Params struct {
	Mix float64 `hcl:"mix,optional"`
}

// Crossfade blends its two inputs.
type Crossfade struct {
	engine.Node

	a, b *engine.Inlet
	mix  float32
}

// New builds a crossfade from decoded parameters.
func New(p *Params, cfg engine.Config) (*Crossfade, error) {
	if p.Mix < 0 || p.Mix > 1 {
		return nil, fmt.Errorf("mix must be in [0, 1], got %g", p.Mix)
	}

	c := &Crossfade{mix: float32(p.Mix)}
	c.a = c.AddInlet(InletA)
	c.b = c.AddInlet(InletB)
	c.AddOutlet(engine.DefaultOutlet, c)
	return c, nil
}

// SetMix updates the blend position, pinned to [0, 1].
func (c *Crossfade) SetMix(mix float32) {
	if mix < 0 {
		mix = 0
	} else if mix > 1 {
		mix = 1
	}
	c.mix = mix
}

// Generate blends one block of the two inputs.
func (c *Crossfade) Generate(frames int) engine.Buffer {
	out := c.a.Pull(frames)
	other := c.b.Pull(frames)

	dry := 1 - c.mix
	for i := range out {
		out[i] = dry*out[i] + c.mix*other[i]
	}
	return out
}

// Register registers the crossfade with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "crossfade",
		Category: "Routing",
		Summary:  "Linear blend between two inputs.",
		NewParams: func() any {
			return &Params{Mix: 0.5}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
