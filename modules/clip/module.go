// Package clip hard-limits its input, either at a fixed level or relative to
// the peak of each block.
package clip

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Clipping modes.
const (
	ModeAbsolute = "absolute"
	ModeRelative = "relative"
)

// minClipLevel keeps the threshold from collapsing to zero on silent blocks.
const minClipLevel = 1e-6

// Params defines the patch-file parameters of a clip block.
type Params struct {
	Mode string `hcl:"mode,optional"`

	// Level is the absolute-mode threshold in linear amplitude.
	Level float64 `hcl:"level,optional"`

	// Percent is the relative-mode threshold as a share of the block peak.
	Percent float64 `hcl:"percent,optional"`

	// Normalize scales the signal up before relative clipping, turning the
	// module into a crude maximizer.
	Normalize bool `hcl:"normalize,optional"`
}

// Clip limits each block of the input.
type Clip struct {
	engine.Node

	in        *engine.Inlet
	mode      string
	level     float32
	percent   float32
	normalize bool
}

// New builds a clipper from decoded parameters.
func New(p *Params, cfg engine.Config) (*Clip, error) {
	switch p.Mode {
	case ModeAbsolute, ModeRelative:
	default:
		return nil, fmt.Errorf("unknown clip mode %q", p.Mode)
	}
	if p.Level <= 0 {
		return nil, fmt.Errorf("level must be positive, got %g", p.Level)
	}
	if p.Percent <= 0 || p.Percent > 100 {
		return nil, fmt.Errorf("percent must be in (0, 100], got %g", p.Percent)
	}

	c := &Clip{
		mode:      p.Mode,
		level:     float32(p.Level),
		percent:   float32(p.Percent),
		normalize: p.Normalize,
	}
	c.in = c.AddInlet(engine.DefaultInlet)
	c.AddOutlet(engine.DefaultOutlet, c)
	return c, nil
}

func clampTo(buf engine.Buffer, limit float32) {
	for i, s := range buf {
		if s > limit {
			buf[i] = limit
		} else if s < -limit {
			buf[i] = -limit
		}
	}
}

// Generate limits one block of the input.
func (c *Clip) Generate(frames int) engine.Buffer {
	out := c.in.Pull(frames)

	switch c.mode {
	case ModeAbsolute:
		limit := c.level
		if limit < minClipLevel {
			limit = minClipLevel
		}
		clampTo(out, limit)

	case ModeRelative:
		peak := out.Peak()
		if peak == 0 {
			return out
		}
		scale := c.percent / 100
		limit := peak * scale
		if limit < minClipLevel {
			limit = minClipLevel
		}
		if c.normalize {
			out.Scale(1 / scale)
		}
		clampTo(out, limit)
	}
	return out
}

// Register registers the clipper with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "clip",
		Category: "Effects/Distortion",
		Summary:  "Hard limiter with absolute and peak-relative modes.",
		NewParams: func() any {
			return &Params{Mode: ModeRelative, Level: 1, Percent: 100}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
