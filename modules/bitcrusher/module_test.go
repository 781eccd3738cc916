package bitcrusher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/engine"
)

// ramp emits a linearly increasing signal.
type ramp struct {
	engine.Node
	step float32
}

func newRamp(step float32) *ramp {
	r := &ramp{step: step}
	r.AddOutlet(engine.DefaultOutlet, r)
	return r
}

func (r *ramp) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)
	for i := 0; i < frames; i++ {
		v := float32(i) * r.step
		out[2*i] = v
		out[2*i+1] = v
	}
	return out
}

func TestNew_RejectsBadParams(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: engine.DefaultSampleRate}

	_, err := New(&Params{BitDepth: 0, Downsample: 8000}, cfg)
	require.ErrorContains(t, err, "bit_depth")

	_, err = New(&Params{BitDepth: 8, Downsample: 0}, cfg)
	require.ErrorContains(t, err, "downsample")
}

func TestGenerate_QuantizesToBitDepth(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: engine.DefaultSampleRate}
	crusher, err := New(&Params{BitDepth: 2, Downsample: cfg.SampleRate}, cfg)
	require.NoError(t, err)

	src := newRamp(0.01)
	src.Outlet(engine.DefaultOutlet).Connect(crusher.Inlet(engine.DefaultInlet))

	out := crusher.Generate(64)

	// 2 bits leave multiples of 1/4.
	for i := 0; i < 64; i++ {
		quantized := out[2*i] * 4
		assert.InDelta(t, float32(int(quantized+0.5)), quantized, 1e-5)
	}
}

func TestGenerate_HoldsSamples(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: 44100}
	crusher, err := New(&Params{BitDepth: 16, Downsample: 11025}, cfg)
	require.NoError(t, err)

	src := newRamp(0.001)
	src.Outlet(engine.DefaultOutlet).Connect(crusher.Inlet(engine.DefaultInlet))

	// step = 4 at this downsample rate, so values repeat in runs of 4.
	out := crusher.Generate(16)
	for i := 0; i < 16; i += 4 {
		for j := 1; j < 4; j++ {
			assert.Equal(t, out[2*i], out[2*(i+j)])
		}
	}
}

func TestGenerate_UnconnectedIsSilent(t *testing.T) {
	t.Parallel()
	crusher, err := New(&Params{BitDepth: 8, Downsample: 8000}, engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	out := crusher.Generate(32)
	assert.Zero(t, out.Peak())
}
