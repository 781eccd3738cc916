package mixer

import (
	"fmt"
	"sync"

	"github.com/vk/patchbaygo/internal/engine"
)

// Mixer sums its strips onto a single stereo bus and hard-limits the result.
type Mixer struct {
	mu     sync.RWMutex
	strips []*Strip
}

// New returns an empty mixer.
func New() *Mixer {
	return &Mixer{}
}

// AddStrip appends a channel strip. Channel names must be unique.
func (m *Mixer) AddStrip(s *Strip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.strips {
		if existing.name == s.name {
			return fmt.Errorf("duplicate channel name %q", s.name)
		}
	}
	m.strips = append(m.strips, s)
	return nil
}

// RemoveStrip drops the named channel. Removing an unknown name is a no-op,
// matching the forgiving behavior of the original fader panel.
func (m *Mixer) RemoveStrip(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.strips {
		if s.name == name {
			m.strips = append(m.strips[:i], m.strips[i+1:]...)
			return
		}
	}
}

// Strip returns the named channel.
func (m *Mixer) Strip(name string) (*Strip, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.strips {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Strips returns the channels in insertion order.
func (m *Mixer) Strips() []*Strip {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Strip, len(m.strips))
	copy(out, m.strips)
	return out
}

// Mix renders one block from every unmuted strip into out, then clamps the
// bus to [-1, 1]. out determines the frame count and is zeroed first, so it
// can be the raw callback buffer handed over by the audio device.
func (m *Mixer) Mix(out engine.Buffer) {
	for i := range out {
		out[i] = 0
	}
	frames := out.Frames()

	m.mu.RLock()
	strips := m.strips
	m.mu.RUnlock()

	for _, s := range strips {
		if buf := s.render(frames); buf != nil {
			out.Add(buf)
		}
	}

	out.Clamp()
}

// Levels reports the post-fader peak of each channel's last mixed block,
// keyed by channel name.
func (m *Mixer) Levels() map[string]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	levels := make(map[string]float32, len(m.strips))
	for _, s := range m.strips {
		levels[s.name] = s.Peak()
	}
	return levels
}
