// Package noise provides a filtered white-noise source. The tone controls are
// single-pole filters: highpass alpha near 1 keeps more lows out, lowpass
// alpha near 0 darkens the noise.
package noise

import (
	"fmt"
	"math/rand"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a noise block.
type Params struct {
	Amplitude float64 `hcl:"amplitude,optional"`

	// HighpassAlpha in [0, 0.99]; 0 disables the highpass.
	HighpassAlpha float64 `hcl:"highpass_alpha,optional"`

	// LowpassAlpha in (0, 1]; 1 disables the lowpass.
	LowpassAlpha float64 `hcl:"lowpass_alpha,optional"`
}

// Noise generates uniform white noise, each channel independent.
type Noise struct {
	engine.Node

	amplitude float32
	hpAlpha   float32
	lpAlpha   float32
	rng       *rand.Rand

	prevInHP  [engine.Channels]float32
	prevOutHP [engine.Channels]float32
	prevOutLP [engine.Channels]float32
}

// New builds a noise source from decoded parameters.
func New(p *Params, cfg engine.Config) (*Noise, error) {
	if p.HighpassAlpha < 0 || p.HighpassAlpha > 0.99 {
		return nil, fmt.Errorf("highpass_alpha must be in [0, 0.99], got %g", p.HighpassAlpha)
	}
	if p.LowpassAlpha <= 0 || p.LowpassAlpha > 1 {
		return nil, fmt.Errorf("lowpass_alpha must be in (0, 1], got %g", p.LowpassAlpha)
	}

	n := &Noise{
		amplitude: float32(p.Amplitude),
		hpAlpha:   float32(p.HighpassAlpha),
		lpAlpha:   float32(p.LowpassAlpha),
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
	n.AddOutlet(engine.DefaultOutlet, n)
	return n, nil
}

// Generate produces one block of filtered noise.
func (n *Noise) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)

	for i := 0; i < frames; i++ {
		for ch := 0; ch < engine.Channels; ch++ {
			s := n.rng.Float32()*2 - 1

			if n.hpAlpha > 0 {
				y := n.hpAlpha * (n.prevOutHP[ch] + s - n.prevInHP[ch])
				n.prevInHP[ch] = s
				n.prevOutHP[ch] = y
				s = y
			}
			if n.lpAlpha < 1 {
				s = n.lpAlpha*s + (1-n.lpAlpha)*n.prevOutLP[ch]
				n.prevOutLP[ch] = s
			}

			out[engine.Channels*i+ch] = s * n.amplitude
		}
	}
	return out
}

// Register registers the noise source with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "noise",
		Category: "Sources",
		Summary:  "White noise with one-pole tone shaping.",
		NewParams: func() any {
			return &Params{Amplitude: 0.5, HighpassAlpha: 0, LowpassAlpha: 1}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
