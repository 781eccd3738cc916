// Package render runs the mixer offline, faster than real time, and writes
// the result to a WAV file.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/mixer"
	"github.com/vk/patchbaygo/internal/wav"
)

// Options controls one offline render.
type Options struct {
	Duration  time.Duration
	BlockSize int
}

// Render pulls duration's worth of audio from the mixer and returns it as one
// buffer. The context cancels a long render between blocks.
func Render(ctx context.Context, m *mixer.Mixer, cfg engine.Config, opts Options) (engine.Buffer, error) {
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("render duration must be positive, got %s", opts.Duration)
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = engine.DefaultBlockSize
	}

	totalFrames := int(float64(cfg.SampleRate) * opts.Duration.Seconds())
	out := engine.NewBuffer(totalFrames)
	block := engine.NewBuffer(blockSize)

	for offset := 0; offset < totalFrames; offset += blockSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		m.Mix(block)
		copy(out[offset*engine.Channels:], block)
	}
	return out, nil
}

// ToFile renders and writes the result as 16-bit PCM.
func ToFile(ctx context.Context, m *mixer.Mixer, cfg engine.Config, opts Options, path string) error {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	buf, err := Render(ctx, m, cfg, opts)
	if err != nil {
		return err
	}
	if err := wav.WriteFile(path, buf, cfg.SampleRate); err != nil {
		return fmt.Errorf("failed to write render output: %w", err)
	}

	logger.Info("Render finished.",
		"path", path,
		"audio", opts.Duration.String(),
		"elapsed", time.Since(start).String(),
	)
	return nil
}
