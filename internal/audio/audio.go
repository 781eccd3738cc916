// Package audio drives the mixer through a PortAudio output stream.
package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/mixer"
)

// Device describes one playback-capable device.
type Device struct {
	Index      int
	Name       string
	HostAPI    string
	Channels   int
	SampleRate float64
	Default    bool
}

// Output owns a running PortAudio stream. The stream callback mixes straight
// into the hardware buffer.
type Output struct {
	stream *portaudio.Stream
	mix    *mixer.Mixer
	block  engine.Buffer
}

// Initialize starts the PortAudio runtime. Pair with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize audio runtime: %w", err)
	}
	return nil
}

// Terminate shuts the PortAudio runtime down.
func Terminate() {
	_ = portaudio.Terminate()
}

// Devices enumerates playback-capable devices across all host APIs. The
// runtime must be initialized.
func Devices() ([]Device, error) {
	hostApis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate host APIs: %w", err)
	}

	var defaultName string
	if dev, err := portaudio.DefaultOutputDevice(); err == nil && dev != nil {
		defaultName = dev.Name
	}

	var out []Device
	index := 0
	for _, host := range hostApis {
		for _, dev := range host.Devices {
			if dev.MaxOutputChannels < 1 {
				continue
			}
			out = append(out, Device{
				Index:      index,
				Name:       dev.Name,
				HostAPI:    host.Name,
				Channels:   dev.MaxOutputChannels,
				SampleRate: dev.DefaultSampleRate,
				Default:    dev.Name == defaultName,
			})
			index++
		}
	}
	return out, nil
}

// outputDevice resolves a device by name, case-insensitive substring match,
// or falls back to the system default when name is empty.
func outputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to find default output device: %w", err)
		}
		return dev, nil
	}

	hostApis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate host APIs: %w", err)
	}
	for _, host := range hostApis {
		for _, dev := range host.Devices {
			if dev.MaxOutputChannels < 1 {
				continue
			}
			if strings.Contains(strings.ToLower(dev.Name), strings.ToLower(name)) {
				return dev, nil
			}
		}
	}
	return nil, fmt.Errorf("no output device matches %q", name)
}

// Open starts playback of the mixer on the named output device, or the
// system default when deviceName is empty. The returned Output must be
// Closed to release the stream.
func Open(ctx context.Context, m *mixer.Mixer, cfg engine.Config, blockSize int, deviceName string) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	dev, err := outputDevice(deviceName)
	if err != nil {
		return nil, err
	}

	o := &Output{
		mix:   m,
		block: engine.NewBuffer(blockSize),
	}

	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = engine.Channels
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = blockSize

	stream, err := portaudio.OpenStream(params, o.callback)
	if err != nil {
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}
	o.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start output stream: %w", err)
	}
	logger.Info("Playback started.", "device", dev.Name, "sampleRate", cfg.SampleRate, "blockSize", blockSize)
	return o, nil
}

// callback runs on the audio thread. It must not allocate or block.
func (o *Output) callback(out []float32) {
	frames := len(out) / engine.Channels
	if frames != o.block.Frames() {
		o.block = engine.NewBuffer(frames)
	}
	o.mix.Mix(o.block)
	copy(out, o.block)
}

// Close stops and releases the stream.
func (o *Output) Close() error {
	if o.stream == nil {
		return nil
	}
	if err := o.stream.Stop(); err != nil {
		o.stream.Close()
		return fmt.Errorf("failed to stop output stream: %w", err)
	}
	return o.stream.Close()
}
