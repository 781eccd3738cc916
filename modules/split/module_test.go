package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/patchbaygo/internal/engine"
)

// counter emits its call count on every sample, which makes upstream pulls
// observable.
type counter struct {
	engine.Node
	calls int
}

func newCounter() *counter {
	c := &counter{}
	c.AddOutlet(engine.DefaultOutlet, c)
	return c
}

func (c *counter) Generate(frames int) engine.Buffer {
	c.calls++
	out := engine.NewBuffer(frames)
	for i := range out {
		out[i] = float32(c.calls)
	}
	return out
}

// sink gives the split's outlets something to be connected to.
type sink struct {
	engine.Node
	in *engine.Inlet
}

func newSink() *sink {
	s := &sink{}
	s.in = s.AddInlet(engine.DefaultInlet)
	return s
}

func (s *sink) Generate(frames int) engine.Buffer { return s.in.Pull(frames) }

func TestGenerate_SharesOnePullAcrossOutlets(t *testing.T) {
	t.Parallel()
	sp, err := New(&Params{}, engine.Config{SampleRate: engine.DefaultSampleRate})
	require.NoError(t, err)

	src := newCounter()
	src.Outlet(engine.DefaultOutlet).Connect(sp.Inlet(engine.DefaultInlet))

	one, two := newSink(), newSink()
	sp.Outlet(OutletOne).Connect(one.in)
	sp.Outlet(OutletTwo).Connect(two.in)

	// Both branches of the same round see the same block.
	a := one.Generate(16)
	b := two.Generate(16)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, src.calls)

	// The next round pulls a fresh block.
	c := one.Generate(16)
	assert.NotEqual(t, a[0], c[0])
	assert.Equal(t, 2, src.calls)
}

func TestGenerate_SingleOutletPullsEveryTime(t *testing.T) {
	t.Parallel()
	sp, err := New(&Params{}, engine.Config{SampleRate: engine.DefaultSampleRate})
	require.NoError(t, err)

	src := newCounter()
	src.Outlet(engine.DefaultOutlet).Connect(sp.Inlet(engine.DefaultInlet))

	one := newSink()
	sp.Outlet(OutletOne).Connect(one.in)

	one.Generate(16)
	one.Generate(16)
	assert.Equal(t, 2, src.calls)
}

func TestGenerate_CopiesAreIndependent(t *testing.T) {
	t.Parallel()
	sp, err := New(&Params{}, engine.Config{SampleRate: engine.DefaultSampleRate})
	require.NoError(t, err)

	src := newCounter()
	src.Outlet(engine.DefaultOutlet).Connect(sp.Inlet(engine.DefaultInlet))

	one, two := newSink(), newSink()
	sp.Outlet(OutletOne).Connect(one.in)
	sp.Outlet(OutletTwo).Connect(two.in)

	a := one.Generate(8)
	a[0] = 99
	b := two.Generate(8)
	assert.NotEqual(t, float32(99), b[0])
}
