package patch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// genParams and gen form a minimal constant source for builder tests.
type genParams struct {
	Value float64 `hcl:"value,optional"`
}

type gen struct {
	engine.Node
	value float32
}

func (m *gen) Generate(frames int) engine.Buffer {
	b := engine.NewBuffer(frames)
	for i := range b {
		b[i] = m.value
	}
	return b
}

// ampParams and amp form a minimal pass-through with gain.
type ampParams struct {
	Gain float64 `hcl:"gain,optional"`
}

type amp struct {
	engine.Node
	in   *engine.Inlet
	gain float32
}

func (m *amp) Generate(frames int) engine.Buffer {
	b := m.in.Pull(frames)
	b.Scale(m.gain)
	return b
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	r.RegisterModule(&registry.Info{
		Type:      "testgen",
		Category:  "Sources",
		NewParams: func() any { return &genParams{Value: 1} },
		New: func(params any, _ engine.Config) (engine.Ported, error) {
			p := params.(*genParams)
			m := &gen{value: float32(p.Value)}
			m.AddOutlet(engine.DefaultOutlet, m)
			return m, nil
		},
	})
	r.RegisterModule(&registry.Info{
		Type:      "testamp",
		Category:  "Effects",
		NewParams: func() any { return &ampParams{Gain: 1} },
		New: func(params any, _ engine.Config) (engine.Ported, error) {
			p := params.(*ampParams)
			m := &amp{gain: float32(p.Gain)}
			m.in = m.AddInlet(engine.DefaultInlet)
			m.AddOutlet(engine.DefaultOutlet, m)
			return m, nil
		},
	})
	return r
}

func loadString(t *testing.T, src string) *Patch {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	p, err := Load(context.Background(), path)
	require.NoError(t, err)
	return p
}

func TestBuildWiresChain(t *testing.T) {
	p := loadString(t, `
module "testgen" "src" {
  value = 0.5
}

module "testamp" "boost" {
  gain = 2
}

connect {
  from = "src"
  to   = "boost"
}

channel "main" {
  source = "boost"
}
`)

	built, err := Build(context.Background(), p, testRegistry(t), engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	require.Equal(t, []string{"src", "boost"}, []string{p.Modules[0].Name, p.Modules[1].Name})
	assert.Equal(t, []string{"testgen", "testamp"}, built.Spawned)

	// Pull one block through the strip and check the chain multiplied out.
	out := engine.NewBuffer(4)
	built.Mixer.Mix(out)
	// 0.5 * 2, centered constant-power pan: sqrt(0.5).
	assert.InDelta(t, 0.7071, out[0], 1e-3)
}

func TestBuildDecodesParamsWithSampleRate(t *testing.T) {
	p := loadString(t, `
module "testgen" "src" {
  value = sample_rate / 88200
}

channel "main" {
  source = "src"
}
`)

	built, err := Build(context.Background(), p, testRegistry(t), engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	src, ok := built.Graph.Module("src")
	require.True(t, ok)
	b := src.Generate(1)
	assert.InDelta(t, 0.5, b[0], 1e-6)
}

func TestBuildParamDefaults(t *testing.T) {
	p := loadString(t, `
module "testgen" "src" {}

channel "main" {
  source  = "src"
  gain_db = -60.0
  pan     = 1.0
  mute    = true
}
`)

	built, err := Build(context.Background(), p, testRegistry(t), engine.Config{SampleRate: 44100})
	require.NoError(t, err)

	strip, ok := built.Mixer.Strip("main")
	require.True(t, ok)
	assert.True(t, strip.Muted())
	assert.Equal(t, 1.0, strip.Pan())
}

func TestBuildErrors(t *testing.T) {
	reg := testRegistry(t)
	cfg := engine.Config{SampleRate: 44100}
	ctx := context.Background()

	t.Run("unknown module type", func(t *testing.T) {
		p := loadString(t, `module "nope" "x" {}`)
		_, err := Build(ctx, p, reg, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown module type "nope"`)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		p := loadString(t, `module "testgen" "x" { bogus = 1 }`)
		_, err := Build(ctx, p, reg, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode parameters")
	})

	t.Run("connection to unknown instance", func(t *testing.T) {
		p := loadString(t, `
module "testgen" "src" {}
connect {
  from = "src"
  to   = "ghost"
}
`)
		_, err := Build(ctx, p, reg, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown destination module")
	})

	t.Run("cycle is rejected", func(t *testing.T) {
		p := loadString(t, `
module "testamp" "a" {}
module "testamp" "b" {}
connect {
  from = "a"
  to   = "b"
}
connect {
  from = "b"
  to   = "a"
}
`)
		_, err := Build(ctx, p, reg, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle detected")
	})

	t.Run("channel with unknown source", func(t *testing.T) {
		p := loadString(t, `channel "main" { source = "ghost" }`)
		_, err := Build(ctx, p, reg, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown source module "ghost"`)
	})

	t.Run("duplicate instance name", func(t *testing.T) {
		p := loadString(t, `
module "testgen" "x" {}
module "testgen" "x" {}
`)
		_, err := Build(ctx, p, reg, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate module instance name")
	})
}
