// Package envelope shapes its input with a classic ADSR contour. Trigger and
// Release drive the state machine; between them the level ramps sample by
// sample, so retriggering mid-decay never jumps.
package envelope

import (
	"fmt"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of an envelope block. Times are in
// seconds, sustain is a linear level.
type Params struct {
	Attack  float64 `hcl:"attack,optional"`
	Decay   float64 `hcl:"decay,optional"`
	Sustain float64 `hcl:"sustain,optional"`
	Release float64 `hcl:"release,optional"`

	// AutoTrigger starts the envelope on the first generated block, for
	// patches with no live control surface.
	AutoTrigger bool `hcl:"auto_trigger,optional"`
}

type stage int

const (
	stageIdle stage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// Envelope multiplies the input by the ADSR level. With nothing connected it
// outputs the bare contour, usable as a control signal.
type Envelope struct {
	engine.Node

	sampleRate int
	attack     float64
	decay      float64
	sustain    float64
	release    float64

	in      *engine.Inlet
	stage   stage
	level   float64
	started bool
	auto    bool
}

// New builds an envelope from decoded parameters.
func New(p *Params, cfg engine.Config) (*Envelope, error) {
	if p.Attack <= 0 || p.Decay <= 0 || p.Release <= 0 {
		return nil, fmt.Errorf("attack, decay and release must be positive")
	}
	if p.Sustain < 0 || p.Sustain > 1 {
		return nil, fmt.Errorf("sustain must be in [0, 1], got %g", p.Sustain)
	}

	e := &Envelope{
		sampleRate: cfg.SampleRate,
		attack:     p.Attack,
		decay:      p.Decay,
		sustain:    p.Sustain,
		release:    p.Release,
		auto:       p.AutoTrigger,
	}
	e.in = e.AddInlet(engine.DefaultInlet)
	e.AddOutlet(engine.DefaultOutlet, e)
	return e, nil
}

// Trigger starts the attack stage.
func (e *Envelope) Trigger() { e.stage = stageAttack }

// Release starts the release stage.
func (e *Envelope) Release() { e.stage = stageRelease }

// Active reports whether the envelope is producing a non-idle level.
func (e *Envelope) Active() bool { return e.stage != stageIdle }

// step advances the state machine by one sample and returns the new level.
func (e *Envelope) step() float64 {
	switch e.stage {
	case stageIdle:
		e.level = 0
	case stageAttack:
		e.level += 1 / (e.attack * float64(e.sampleRate))
		if e.level >= 1 {
			e.level = 1
			e.stage = stageDecay
		}
	case stageDecay:
		e.level -= (1 - e.sustain) / (e.decay * float64(e.sampleRate))
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = stageSustain
		}
	case stageSustain:
		e.level = e.sustain
	case stageRelease:
		e.level -= e.sustain / (e.release * float64(e.sampleRate))
		if e.level <= 0 {
			e.level = 0
			e.stage = stageIdle
		}
	}
	return e.level
}

// Generate applies the contour to one block.
func (e *Envelope) Generate(frames int) engine.Buffer {
	if e.auto && !e.started {
		e.started = true
		e.Trigger()
	}

	connected := e.in.Connected()
	out := e.in.Pull(frames)

	for i := 0; i < frames; i++ {
		level := float32(e.step())
		if connected {
			out[2*i] *= level
			out[2*i+1] *= level
		} else {
			out[2*i] = level
			out[2*i+1] = level
		}
	}
	return out
}

// Register registers the envelope with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "envelope",
		Category: "Effects",
		Summary:  "ADSR amplitude contour, gated or free-running.",
		NewParams: func() any {
			return &Params{Attack: 0.01, Decay: 0.1, Sustain: 0.7, Release: 0.2}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
