// Package wav reads and writes WAV files.
//
// The writer produces the 16-bit stereo PCM files the offline renderer
// emits; the reader additionally accepts 32-bit IEEE-float data and mono
// input for the sampler and speech modules, spreading mono across both
// channels of the stereo graph.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/vk/patchbaygo/internal/engine"
)

const (
	formatPCM      = 1
	formatFloat    = 3
	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
)

// Encode writes buf as a 16-bit stereo PCM WAV stream.
func Encode(w io.Writer, buf engine.Buffer, sampleRate int) error {
	dataSize := len(buf) * bytesPerSample
	blockAlign := engine.Channels * bytesPerSample

	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(36+dataSize))
	header.WriteString("WAVE")

	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16))
	binary.Write(&header, binary.LittleEndian, uint16(formatPCM))
	binary.Write(&header, binary.LittleEndian, uint16(engine.Channels))
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&header, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&header, binary.LittleEndian, uint16(bitsPerSample))

	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(dataSize))

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}

	pcm := make([]byte, dataSize)
	for i, s := range buf {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sampleToInt16(s)))
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

// WriteFile encodes buf into a WAV file at path.
func WriteFile(path string, buf engine.Buffer, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, buf, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode reads a 16-bit PCM or 32-bit IEEE-float WAV stream and returns the
// samples as a stereo buffer plus the file's sample rate. Mono input is
// duplicated onto both channels.
func Decode(r io.Reader) (engine.Buffer, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read WAV stream: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		haveFmt    bool
	)

	// Walk the chunk list; fmt must precede data.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, 0, fmt.Errorf("truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("fmt chunk too short (%d bytes)", size)
			}
			format = binary.LittleEndian.Uint16(data[body:])
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			if channels != 1 && channels != 2 {
				return nil, 0, fmt.Errorf("unsupported channel count %d", channels)
			}
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits := binary.LittleEndian.Uint16(data[body+14:])
			switch {
			case format == formatPCM && bits == bitsPerSample:
			case format == formatFloat && bits == 32:
			default:
				return nil, 0, fmt.Errorf("unsupported WAV format %d at %d bits, want 16-bit PCM or 32-bit float", format, bits)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, 0, fmt.Errorf("data chunk before fmt chunk")
			}
			if format == formatFloat {
				return decodeFloat32(data[body:body+size], channels), sampleRate, nil
			}
			return decodePCM(data[body:body+size], channels), sampleRate, nil
		}

		// Chunks are word-aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	return nil, 0, fmt.Errorf("no data chunk found")
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (engine.Buffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf, rate, err := Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return buf, rate, nil
}

func decodePCM(pcm []byte, channels int) engine.Buffer {
	sampleCount := len(pcm) / bytesPerSample
	if channels == 2 {
		buf := make(engine.Buffer, sampleCount)
		for i := range buf {
			buf[i] = int16ToSample(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
		}
		return buf
	}

	mono := make([]float32, sampleCount)
	for i := range mono {
		mono[i] = int16ToSample(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	return engine.FromMono(mono)
}

func decodeFloat32(raw []byte, channels int) engine.Buffer {
	sampleCount := len(raw) / 4
	samples := make([]float32, sampleCount)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	if channels == 2 {
		return engine.Buffer(samples)
	}
	return engine.FromMono(samples)
}

func sampleToInt16(s float32) int16 {
	v := float64(s)
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(math.Round(v * 32767))
}

func int16ToSample(v int16) float32 {
	return float32(v) / 32768
}
