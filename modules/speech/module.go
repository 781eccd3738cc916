// Package speech synthesizes spoken text through an external TTS program.
// The command is expected to accept -t <text> -o <wavfile>, the calling
// convention of mimic and flite; the rendered file is then played back like
// any other sample.
package speech

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
	"github.com/vk/patchbaygo/internal/wav"
	"github.com/vk/patchbaygo/modules/sampler"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// DefaultCommand is the TTS binary looked up on PATH when none is given.
const DefaultCommand = "mimic"

// Params defines the patch-file parameters of a speech block.
type Params struct {
	Text    string  `hcl:"text"`
	Voice   string  `hcl:"voice,optional"`
	Command string  `hcl:"command,optional"`
	Loop    bool    `hcl:"loop,optional"`
	Gain    float64 `hcl:"gain,optional"`
}

// Synthesize runs the TTS command and returns the rendered audio.
func Synthesize(p *Params) (engine.Buffer, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("text must not be empty")
	}
	command := p.Command
	if command == "" {
		command = DefaultCommand
	}

	tmp, err := os.CreateTemp("", "speech-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	args := []string{"-t", p.Text, "-o", tmp.Name()}
	if p.Voice != "" {
		args = append(args, "-voice", p.Voice)
	}
	cmd := exec.Command(command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("tts command %q failed: %w: %s", command, err, strings.TrimSpace(string(out)))
	}

	data, _, err := wav.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to load tts output: %w", err)
	}
	return data, nil
}

// New renders the text and wraps the result in a sampler for playback.
func New(p *Params, cfg engine.Config) (engine.Ported, error) {
	data, err := Synthesize(p)
	if err != nil {
		return nil, err
	}
	return sampler.FromBuffer(data, p.Loop, float32(p.Gain)), nil
}

// Register registers the speech source with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "speech",
		Category: "Sources",
		Summary:  "Text-to-speech rendered through an external engine.",
		NewParams: func() any {
			return &Params{Gain: 1}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(params.(*Params), cfg)
		},
	})
}
