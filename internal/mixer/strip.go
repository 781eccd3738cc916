package mixer

import (
	"math"
	"sync/atomic"

	"github.com/vk/patchbaygo/internal/engine"
)

// atomicFloat32 stores a float32 through its bit pattern so fader moves and
// the audio callback never contend on a lock.
type atomicFloat32 struct {
	bits atomic.Uint32
}

func (f *atomicFloat32) Store(v float32) { f.bits.Store(math.Float32bits(v)) }
func (f *atomicFloat32) Load() float32   { return math.Float32frombits(f.bits.Load()) }

// Strip is a single mixer channel: one source module plus gain, pan and mute.
type Strip struct {
	name   string
	source engine.Module

	gain  atomicFloat32 // linear
	pan   atomicFloat32 // -1 (left) .. +1 (right)
	muted atomic.Bool

	peak atomicFloat32 // peak of the last mixed block, post fader
}

// NewStrip creates a strip for the given source at unity gain, centered.
func NewStrip(name string, source engine.Module) *Strip {
	s := &Strip{name: name, source: source}
	s.gain.Store(1)
	return s
}

// Name returns the strip's channel name.
func (s *Strip) Name() string { return s.name }

// Source returns the module feeding the strip.
func (s *Strip) Source() engine.Module { return s.source }

// SetGainDB sets the fader in decibels. Values at or below DBMin mute the
// signal entirely (-inf on the fader scale).
func (s *Strip) SetGainDB(db float64) {
	if db <= DBMin {
		s.gain.Store(0)
		return
	}
	s.gain.Store(float32(DBToGain(db)))
}

// GainDB returns the fader position in decibels.
func (s *Strip) GainDB() float64 { return GainToDB(float64(s.gain.Load())) }

// SetPan positions the signal between -1 (hard left) and +1 (hard right).
// Out-of-range values are pinned.
func (s *Strip) SetPan(pan float64) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	s.pan.Store(float32(pan))
}

// Pan returns the current pan position.
func (s *Strip) Pan() float64 { return float64(s.pan.Load()) }

// SetMuted toggles the strip's mute state.
func (s *Strip) SetMuted(muted bool) { s.muted.Store(muted) }

// Muted reports whether the strip is muted.
func (s *Strip) Muted() bool { return s.muted.Load() }

// Peak returns the post-fader peak of the most recently mixed block.
func (s *Strip) Peak() float32 { return s.peak.Load() }

// render pulls one block from the source and applies the fader. Muted strips
// return nil so the mixer can skip them without generating audio.
func (s *Strip) render(frames int) engine.Buffer {
	if s.muted.Load() {
		s.peak.Store(0)
		return nil
	}

	buf := s.source.Generate(frames)

	// Constant-power pan, same curve the faders have always used.
	pan := float64(s.pan.Load())
	gain := float64(s.gain.Load())
	left := float32(math.Sqrt(0.5*(1-pan)) * gain)
	right := float32(math.Sqrt(0.5*(1+pan)) * gain)

	for i := 0; i < len(buf); i += engine.Channels {
		buf[i] *= left
		buf[i+1] *= right
	}

	s.peak.Store(buf.Peak())
	return buf
}
