// Package split fans one input out to two outlets. The pull model would
// otherwise advance the upstream module once per outlet, so the split caches
// one block and serves it to every connected outlet before pulling again.
package split

import (
	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Outlet names.
const (
	OutletOne = "out1"
	OutletTwo = "out2"
)

// Params defines the patch-file parameters of a split block. It has none.
type Params struct{}

// Split duplicates its input on two outlets.
type Split struct {
	engine.Node

	in     *engine.Inlet
	outs   [2]*engine.Outlet
	cached engine.Buffer
	pulls  int
}

// New builds a split.
func New(p *Params, cfg engine.Config) (*Split, error) {
	s := &Split{}
	s.in = s.AddInlet(engine.DefaultInlet)
	s.outs[0] = s.AddOutlet(OutletOne, s)
	s.outs[1] = s.AddOutlet(OutletTwo, s)
	return s, nil
}

// Generate returns a copy of the cached block, refreshing it once per round
// of connected outlets.
func (s *Split) Generate(frames int) engine.Buffer {
	fanout := 0
	for _, out := range s.outs {
		if out.Connected() {
			fanout++
		}
	}
	if fanout == 0 {
		fanout = 1
	}

	if s.cached == nil || s.pulls%fanout == 0 {
		s.cached = s.in.Pull(frames)
		s.pulls = 0
	}
	s.pulls++

	out := make(engine.Buffer, len(s.cached))
	copy(out, s.cached)
	return out
}

// Register registers the split with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "split",
		Category: "Routing",
		Summary:  "Duplicates one signal onto two outlets.",
		NewParams: func() any {
			return &Params{}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
