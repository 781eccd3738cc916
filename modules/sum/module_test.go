package sum

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/mixer"
)

type constant struct {
	engine.Node
	value float32
}

func newConstant(value float32) *constant {
	c := &constant{value: value}
	c.AddOutlet(engine.DefaultOutlet, c)
	return c
}

func (c *constant) Generate(frames int) engine.Buffer {
	out := engine.NewBuffer(frames)
	for i := range out {
		out[i] = c.value
	}
	return out
}

func TestNew_RejectsTooManyEntries(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: engine.DefaultSampleRate}

	_, err := New(&Params{InputDB: []float64{0, 0, 0, 0, 0}}, cfg)
	require.ErrorContains(t, err, "input_db")

	_, err = New(&Params{Muted: make([]bool, 5)}, cfg)
	require.ErrorContains(t, err, "muted")
}

func TestGenerate_MixesWithGains(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: engine.DefaultSampleRate}
	s, err := New(&Params{InputDB: []float64{0, -6}, MasterDB: 0}, cfg)
	require.NoError(t, err)

	newConstant(0.2).Outlet(engine.DefaultOutlet).Connect(s.Inlet("in1"))
	newConstant(0.2).Outlet(engine.DefaultOutlet).Connect(s.Inlet("in2"))

	want := 0.2 + 0.2*float32(mixer.DBToGain(-6))
	out := s.Generate(8)
	assert.InDelta(t, want, out[0], 1e-5)
}

func TestGenerate_MutedInputSkipped(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: engine.DefaultSampleRate}
	s, err := New(&Params{InputDB: []float64{0, 0}, Muted: []bool{false, true}}, cfg)
	require.NoError(t, err)

	newConstant(0.3).Outlet(engine.DefaultOutlet).Connect(s.Inlet("in1"))
	newConstant(0.5).Outlet(engine.DefaultOutlet).Connect(s.Inlet("in2"))

	out := s.Generate(8)
	assert.InDelta(t, 0.3, out[0], 1e-5)
}

func TestGenerate_MasterGainAndClamp(t *testing.T) {
	t.Parallel()
	cfg := engine.Config{SampleRate: engine.DefaultSampleRate}
	s, err := New(&Params{InputDB: []float64{0, 0, 0, 0}, MasterDB: 10}, cfg)
	require.NoError(t, err)

	for i := 1; i <= InputCount; i++ {
		newConstant(0.5).Outlet(engine.DefaultOutlet).Connect(s.Inlet(fmt.Sprintf("in%d", i)))
	}

	out := s.Generate(8)
	assert.InDelta(t, 1, out[0], 1e-6)
}

func TestGenerate_NoInputsIsSilent(t *testing.T) {
	t.Parallel()
	s, err := New(&Params{}, engine.Config{SampleRate: engine.DefaultSampleRate})
	require.NoError(t, err)
	assert.Zero(t, s.Generate(8).Peak())
}
