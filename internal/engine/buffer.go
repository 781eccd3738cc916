package engine

// Channels is the channel count of every buffer in the graph. The engine is
// stereo end to end; mono sources duplicate their signal across both channels.
const Channels = 2

// DefaultSampleRate and DefaultBlockSize match the stream parameters the
// engine has always been tuned for.
const (
	DefaultSampleRate = 44100
	DefaultBlockSize  = 1024
)

// Buffer holds interleaved stereo samples: len(b) == Frames()*Channels.
type Buffer []float32

// NewBuffer returns a zeroed (silent) buffer for the given frame count.
func NewBuffer(frames int) Buffer {
	return make(Buffer, frames*Channels)
}

// Frames returns the number of stereo frames in the buffer.
func (b Buffer) Frames() int {
	return len(b) / Channels
}

// Add mixes other into b sample by sample. The shorter length wins.
func (b Buffer) Add(other Buffer) {
	n := len(b)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		b[i] += other[i]
	}
}

// Scale multiplies every sample by gain.
func (b Buffer) Scale(gain float32) {
	for i := range b {
		b[i] *= gain
	}
}

// Clamp hard-limits every sample to [-1, 1].
func (b Buffer) Clamp() {
	for i, s := range b {
		if s > 1 {
			b[i] = 1
		} else if s < -1 {
			b[i] = -1
		}
	}
}

// Peak returns the largest absolute sample value in the buffer.
func (b Buffer) Peak() float32 {
	var peak float32
	for _, s := range b {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// FromMono spreads a mono signal across both channels of a new buffer.
func FromMono(samples []float32) Buffer {
	b := NewBuffer(len(samples))
	for i, s := range samples {
		b[2*i] = s
		b[2*i+1] = s
	}
	return b
}
