// Package meter is a pass-through level monitor. It computes RMS and peak
// per block on the audio thread and, when a URL is configured, streams the
// readings to a socket.io endpoint from a background goroutine. The audio
// path never touches the network.
package meter

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/engine"
	"github.com/vk/patchbaygo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params defines the patch-file parameters of a meter block. An empty url
// keeps the meter local: levels stay readable through Levels but nothing is
// published.
type Params struct {
	URL                string `hcl:"url,optional"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	IntervalMS         int    `hcl:"interval_ms,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// Levels is one meter reading.
type Levels struct {
	RMS  float32 `json:"rms"`
	Peak float32 `json:"peak"`
}

// Meter passes audio through unchanged while measuring it.
type Meter struct {
	engine.Node

	in   *engine.Inlet
	rms  atomic.Uint32
	peak atomic.Uint32

	cancel context.CancelFunc
	donech chan struct{}
}

// New builds a meter from decoded parameters and, if a URL is set, starts
// the publisher goroutine.
func New(ctx context.Context, p *Params, cfg engine.Config) (*Meter, error) {
	m := &Meter{}
	m.in = m.AddInlet(engine.DefaultInlet)
	m.AddOutlet(engine.DefaultOutlet, m)

	if p.URL == "" {
		return m, nil
	}
	if p.IntervalMS <= 0 {
		return nil, fmt.Errorf("interval_ms must be positive, got %d", p.IntervalMS)
	}
	parsed, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	pubCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.donech = make(chan struct{})
	go m.publish(pubCtx, parsed, p)
	return m, nil
}

// Generate measures and forwards one block.
func (m *Meter) Generate(frames int) engine.Buffer {
	out := m.in.Pull(frames)

	var sum float64
	var peak float32
	for _, s := range out {
		sum += float64(s) * float64(s)
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	rms := float32(math.Sqrt(sum / float64(len(out))))

	m.rms.Store(math.Float32bits(rms))
	m.peak.Store(math.Float32bits(peak))
	return out
}

// Levels returns the most recent reading.
func (m *Meter) Levels() Levels {
	return Levels{
		RMS:  math.Float32frombits(m.rms.Load()),
		Peak: math.Float32frombits(m.peak.Load()),
	}
}

// Close stops the publisher goroutine, if one was started.
func (m *Meter) Close() error {
	if m.cancel != nil {
		m.cancel()
		<-m.donech
		m.cancel = nil
	}
	return nil
}

// publish connects to the socket.io endpoint and emits readings on a timer
// until the context is cancelled.
func (m *Meter) publish(ctx context.Context, parsed *url.URL, p *Params) {
	defer close(m.donech)
	logger := ctxlog.FromContext(ctx).With("module", "meter", "url", p.URL, "event", p.Event)

	var isConnected atomic.Bool

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsed.Path)
	if p.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(p.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting meter publisher")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Meter publisher connected", "namespace", p.Namespace, "sid", io.Id())
	})
	io.On(types.EventName("disconnect"), func(...any) {
		isConnected.Store(false)
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Meter publisher connection error", "error", errs[0])
	})

	io.Connect()

	ticker := time.NewTicker(time.Duration(p.IntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !isConnected.Load() {
				continue
			}
			levels := m.Levels()
			io.Emit(p.Event, map[string]any{"rms": levels.RMS, "peak": levels.Peak})
		}
	}
}

// Register registers the meter with the module catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModule(&registry.Info{
		Type:     "meter",
		Category: "Telemetry",
		Summary:  "Pass-through RMS/peak meter with optional socket.io telemetry.",
		NewParams: func() any {
			return &Params{Namespace: "/", Event: "levels", IntervalMS: 250}
		},
		New: func(params any, cfg engine.Config) (engine.Ported, error) {
			return New(context.Background(), params.(*Params), cfg)
		},
	})
}
