package sampler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/wav"
)

func writeTestWAV(t *testing.T, frames int) string {
	t.Helper()
	data := engine.NewBuffer(frames)
	for i := 0; i < frames; i++ {
		v := float32(i+1) / float32(frames)
		data[2*i] = v
		data[2*i+1] = -v
	}
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, wav.WriteFile(path, data, engine.DefaultSampleRate))
	return path
}

func TestNew_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := New(&Params{Path: "/does/not/exist.wav", Gain: 1}, engine.Config{SampleRate: 44100})
	require.ErrorContains(t, err, "failed to load sample")
}

func TestGenerate_OneShotEndsInSilence(t *testing.T) {
	t.Parallel()
	path := writeTestWAV(t, 10)
	s, err := New(&Params{Path: path, Gain: 1}, engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	out := s.Generate(16)
	assert.NotZero(t, out[2*9])
	assert.Zero(t, out[2*10])
	assert.True(t, s.Done())

	assert.Zero(t, s.Generate(16).Peak())
}

func TestGenerate_LoopWraps(t *testing.T) {
	t.Parallel()
	path := writeTestWAV(t, 10)
	s, err := New(&Params{Path: path, Loop: true, Gain: 1}, engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	out := s.Generate(25)
	// Sample 10 restarts the file.
	assert.InDelta(t, out[0], out[2*10], 1e-3)
	assert.InDelta(t, out[0], out[2*20], 1e-3)
	assert.False(t, s.Done())
}

func TestGenerate_GainApplies(t *testing.T) {
	t.Parallel()
	path := writeTestWAV(t, 4)
	s, err := New(&Params{Path: path, Gain: 0.5}, engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	full := FromBuffer(mustRead(t, path), false, 1)
	haveFull := full.Generate(4)
	haveHalf := s.Generate(4)
	for i := range haveHalf {
		assert.InDelta(t, haveFull[i]*0.5, haveHalf[i], 1e-4)
	}
}

func TestRewind(t *testing.T) {
	t.Parallel()
	path := writeTestWAV(t, 8)
	s, err := New(&Params{Path: path, Gain: 1}, engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	first := s.Generate(8)
	s.Rewind()
	again := s.Generate(8)
	assert.Equal(t, first, again)
}

func mustRead(t *testing.T, path string) engine.Buffer {
	t.Helper()
	data, _, err := wav.ReadFile(path)
	require.NoError(t, err)
	return data
}
