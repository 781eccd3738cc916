// Package bandpass filters its input to a frequency band. The band edges come
// from a highpass and a lowpass biquad in series, state kept per channel so
// block boundaries stay click-free.
package bandpass

import (
	"fmt"
	"math"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a bandpass block.
type Params struct {
	LowCut  float64 `hcl:"low_cut,optional"`
	HighCut float64 `hcl:"high_cut,optional"`
}

// biquad is one second-order section in direct form 1.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [engine.Channels]float64
}

func (f *biquad) process(ch int, x float64) float64 {
	y := f.b0*x + f.b1*f.x1[ch] + f.b2*f.x2[ch] - f.a1*f.y1[ch] - f.a2*f.y2[ch]
	f.x2[ch] = f.x1[ch]
	f.x1[ch] = x
	f.y2[ch] = f.y1[ch]
	f.y1[ch] = y
	return y
}

// butterworthQ gives a maximally flat single-section response.
const butterworthQ = math.Sqrt2 / 2

func newLowpass(freq float64, sampleRate int) *biquad {
	omega := 2 * math.Pi * freq / float64(sampleRate)
	sin, cos := math.Sincos(omega)
	alpha := sin / (2 * butterworthQ)
	a0 := 1 + alpha
	return &biquad{
		b0: (1 - cos) / 2 / a0,
		b1: (1 - cos) / a0,
		b2: (1 - cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

func newHighpass(freq float64, sampleRate int) *biquad {
	omega := 2 * math.Pi * freq / float64(sampleRate)
	sin, cos := math.Sincos(omega)
	alpha := sin / (2 * butterworthQ)
	a0 := 1 + alpha
	return &biquad{
		b0: (1 + cos) / 2 / a0,
		b1: -(1 + cos) / a0,
		b2: (1 + cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

// Bandpass passes frequencies between low_cut and high_cut.
type Bandpass struct {
	engine.Node

	in *engine.Inlet
	hp *biquad
	lp *biquad
}

// New builds a bandpass filter from decoded parameters.
func New(p *Params, cfg engine.Config) (*Bandpass, error) {
	nyquist := float64(cfg.SampleRate) / 2
	if p.LowCut <= 0 || p.HighCut <= p.LowCut {
		return nil, fmt.Errorf("band edges must satisfy 0 < low_cut < high_cut, got %g and %g", p.LowCut, p.HighCut)
	}
	if p.HighCut >= nyquist {
		return nil, fmt.Errorf("high_cut %g exceeds the Nyquist limit %g", p.HighCut, nyquist)
	}

	b := &Bandpass{
		hp: newHighpass(p.LowCut, cfg.SampleRate),
		lp: newLowpass(p.HighCut, cfg.SampleRate),
	}
	b.in = b.AddInlet(engine.DefaultInlet)
	b.AddOutlet(engine.DefaultOutlet, b)
	return b, nil
}

// Generate filters one block of the input.
func (b *Bandpass) Generate(frames int) engine.Buffer {
	out := b.in.Pull(frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < engine.Channels; ch++ {
			idx := engine.Channels*i + ch
			s := b.hp.process(ch, float64(out[idx]))
			out[idx] = float32(b.lp.process(ch, s))
		}
	}
	return out
}

// Register registers the bandpass filter with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "bandpass",
		Category: "Effects/Filters",
		Summary:  "Band-limits the signal between two cutoff frequencies.",
		NewParams: func() any {
			return &Params{LowCut: 20, HighCut: 18000}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
