package bandpass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/engine"
)

// sine is a test tone generator.
type sine struct {
	engine.Node
	freq  float64
	rate  int
	phase float64
}

func newSine(freq float64, rate int) *sine {
	s := &sine{freq: freq, rate: rate}
	s.AddOutlet(engine.DefaultOutlet, s)
	return s
}

func (s *sine) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)
	inc := 2 * math.Pi * s.freq / float64(s.rate)
	for i := 0; i < frames; i++ {
		v := float32(math.Sin(s.phase))
		s.phase += inc
		out[2*i] = v
		out[2*i+1] = v
	}
	return out
}

func rms(b engine.Buffer) float64 {
	var sum float64
	for _, s := range b {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(b)))
}

// filteredRMS settles the filter over a few blocks, then measures.
func filteredRMS(t *testing.T, tone float64, lowCut, highCut float64) float64 {
	t.Helper()
	cfg := engine.Config{SampleRate: 44100}
	b, err := New(&Params{LowCut: lowCut, HighCut: highCut}, cfg)
	require.NoError(t, err)

	newSine(tone, cfg.SampleRate).Outlet(engine.DefaultOutlet).Connect(b.Inlet(engine.DefaultInlet))

	for i := 0; i < 10; i++ {
		b.Generate(engine.DefaultBlockSize)
	}
	return rms(b.Generate(engine.DefaultBlockSize))
}

func TestNew_RejectsBadBand(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: 44100}

	_, err := New(&Params{LowCut: 0, HighCut: 1000}, cfg)
	require.ErrorContains(t, err, "band edges")

	_, err = New(&Params{LowCut: 2000, HighCut: 1000}, cfg)
	require.ErrorContains(t, err, "band edges")

	_, err = New(&Params{LowCut: 20, HighCut: 30000}, cfg)
	require.ErrorContains(t, err, "Nyquist")
}

func TestGenerate_PassbandToneSurvives(t *testing.T) {
	t.Parallel()
	level := filteredRMS(t, 1000, 100, 8000)

	// A full-scale sine has RMS 1/sqrt(2).
	assert.InDelta(t, 1/math.Sqrt2, level, 0.1)
}

func TestGenerate_StopbandTonesAttenuated(t *testing.T) {
	t.Parallel()

	low := filteredRMS(t, 30, 500, 4000)
	assert.Less(t, low, 0.1)

	high := filteredRMS(t, 15000, 100, 1000)
	assert.Less(t, high, 0.1)
}

func TestGenerate_UnconnectedIsSilent(t *testing.T) {
	t.Parallel()
	b, err := New(&Params{LowCut: 100, HighCut: 5000}, engine.Config{SampleRate: 44100})
	require.NoError(t, err)
	assert.Zero(t, b.Generate(64).Peak())
}
