// Package pan places its input in the stereo field with an equal-power law.
package pan

import (
	"fmt"
	"math"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a pan block. Position runs from
// -1 (full left) to 1 (full right).
type Params struct {
	Position float64 `hcl:"position,optional"`
}

// Pan attenuates each channel along a quarter sine curve so the total power
// stays constant across the sweep.
type Pan struct {
	engine.Node

	in    *engine.Inlet
	left  float32
	right float32
}

// New builds a panner from decoded parameters.
func New(p *Params, cfg engine.Config) (*Pan, error) {
	if p.Position < -1 || p.Position > 1 {
		return nil, fmt.Errorf("position must be in [-1, 1], got %g", p.Position)
	}

	angle := (p.Position + 1) * math.Pi / 4
	pn := &Pan{
		left:  float32(math.Cos(angle)),
		right: float32(math.Sin(angle)),
	}
	pn.in = pn.AddInlet(engine.DefaultInlet)
	pn.AddOutlet(engine.DefaultOutlet, pn)
	return pn, nil
}

// Generate pans one block of the input.
func (p *Pan) Generate(frames int) engine.Buffer {
	out := p.in.Pull(frames)
	for i := 0; i < frames; i++ {
		out[2*i] *= p.left
		out[2*i+1] *= p.right
	}
	return out
}

// Register registers the panner with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "pan",
		Category: "Effects/Spatial",
		Summary:  "Constant-power stereo placement.",
		NewParams: func() any {
			return &Params{Position: 0}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
