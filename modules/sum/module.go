// Package sum mixes up to four inputs down to one output, with per-input
// gain and mute plus a master fader, like a small submixer inside a patch.
package sum

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/mixer"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// InputCount is the number of inlets, named in1 through in4.
const InputCount = 4

// Params defines the patch-file parameters of a sum block. Gains are in dB;
// omitted entries fall back to the defaults.
type Params struct {
	InputDB  []float64 `hcl:"input_db,optional"`
	Muted    []bool    `hcl:"muted,optional"`
	MasterDB float64   `hcl:"master_db,optional"`
}

// Sum is a 4:1 mixer node.
type Sum struct {
	engine.Node

	inputs     [InputCount]*engine.Inlet
	gains      [InputCount]float32
	muted      [InputCount]bool
	masterGain float32
}

// New builds a sum from decoded parameters.
func New(p *Params, cfg engine.Config) (*Sum, error) {
	if len(p.InputDB) > InputCount {
		return nil, fmt.Errorf("input_db holds %d entries, at most %d inputs exist", len(p.InputDB), InputCount)
	}
	if len(p.Muted) > InputCount {
		return nil, fmt.Errorf("muted holds %d entries, at most %d inputs exist", len(p.Muted), InputCount)
	}

	s := &Sum{masterGain: float32(mixer.DBToGain(p.MasterDB))}
	for i := 0; i < InputCount; i++ {
		s.inputs[i] = s.AddInlet(fmt.Sprintf("in%d", i+1))
		db := -6.0
		if i < len(p.InputDB) {
			db = p.InputDB[i]
		}
		s.gains[i] = float32(mixer.DBToGain(db))
		if i < len(p.Muted) {
			s.muted[i] = p.Muted[i]
		}
	}
	s.AddOutlet(engine.DefaultOutlet, s)
	return s, nil
}

// Generate mixes one block of the connected inputs.
func (s *Sum) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)

	for i := 0; i < InputCount; i++ {
		if s.muted[i] || !s.inputs[i].Connected() {
			continue
		}
		in := s.inputs[i].Pull(frames)
		gain := s.gains[i]
		for j := range out {
			out[j] += in[j] * gain
		}
	}

	out.Scale(s.masterGain)
	out.Clamp()
	return out
}

// Register registers the sum with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "sum",
		Category: "Routing",
		Summary:  "4:1 submixer with per-input gain and mute.",
		NewParams: func() any {
			return &Params{MasterDB: 0}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
