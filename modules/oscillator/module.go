// Package oscillator provides the main pitched audio source. The waveform is
// phase-continuous across blocks and frequency changes glide towards their
// target instead of jumping, so live pitch tweaks never click.
package oscillator

import (
	"fmt"
	"math"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Waveform names accepted by the "wave" parameter.
const (
	WaveSine     = "sine"
	WaveTriangle = "triangle"
	WaveSquare   = "square"
	WaveSawtooth = "sawtooth"
)

// DefaultSmoothing is the per-block pitch glide coefficient. Smaller is
// smoother.
const DefaultSmoothing = 0.02

// Params defines the patch-file parameters of an oscillator block.
type Params struct {
	Frequency float64 `hcl:"frequency,optional"`
	Amplitude float64 `hcl:"amplitude,optional"`
	Wave      string  `hcl:"wave,optional"`
	Smoothing float64 `hcl:"smoothing,optional"`
}

// Oscillator generates one of four classic waveforms.
type Oscillator struct {
	engine.Node

	sampleRate int
	wave       string
	amplitude  float32
	smoothing  float64

	phase     float64
	frequency float64
	target    float64
}

// New builds an oscillator from decoded parameters.
func New(p *Params, cfg engine.Config) (*Oscillator, error) {
	switch p.Wave {
	case WaveSine, WaveTriangle, WaveSquare, WaveSawtooth:
	default:
		return nil, fmt.Errorf("unknown waveform %q", p.Wave)
	}
	if p.Frequency <= 0 {
		return nil, fmt.Errorf("frequency must be positive, got %g", p.Frequency)
	}

	o := &Oscillator{
		sampleRate: cfg.SampleRate,
		wave:       p.Wave,
		amplitude:  float32(p.Amplitude),
		smoothing:  p.Smoothing,
		frequency:  p.Frequency,
		target:     p.Frequency,
	}
	o.AddOutlet(engine.DefaultOutlet, o)
	return o, nil
}

// SetFrequency sets the glide target. The audible pitch approaches it over
// the following blocks.
func (o *Oscillator) SetFrequency(hz float64) {
	if hz > 0 {
		o.target = hz
	}
}

// Frequency returns the current (possibly still gliding) frequency.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// Generate produces one block of the selected waveform.
func (o *Oscillator) Generate(frames int) engine.Buffer {
	o.frequency += (o.target - o.frequency) * o.smoothing

	out := engine.NewBuffer(frames)
	inc := o.frequency / float64(o.sampleRate)

	for i := 0; i < frames; i++ {
		phase := math.Mod(o.phase+float64(i)*inc, 1.0)

		var s float64
		switch o.wave {
		case WaveSine:
			s = math.Sin(2 * math.Pi * phase)
		case WaveTriangle:
			s = 2*math.Abs(2*phase-1) - 1
		case WaveSquare:
			if 2*phase-1 >= 0 {
				s = 1
			} else {
				s = -1
			}
		case WaveSawtooth:
			s = 2*phase - 1
		}

		v := float32(s) * o.amplitude
		out[2*i] = v
		out[2*i+1] = v
	}

	o.phase = math.Mod(o.phase+float64(frames)*inc, 1.0)
	return out
}

// Register registers the oscillator with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "oscillator",
		Category: "Sources",
		Summary:  "Pitched waveform source with glide and selectable shape.",
		NewParams: func() any {
			return &Params{
				Frequency: 440,
				Amplitude: 0.5,
				Wave:      WaveSine,
				Smoothing: DefaultSmoothing,
			}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
