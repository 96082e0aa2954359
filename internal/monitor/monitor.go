package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/history"
	"github.com/pingline/pingline/internal/probe"
	"github.com/pingline/pingline/internal/render"
)

// Update is published after every tick: the sample just taken plus the
// re-rendered window. Consumers receive it via Updates().
type Update struct {
	Sample    probe.Sample
	Samples   []probe.Sample
	Sparkline string
	Stats     history.Stats
}

// State is a point-in-time snapshot of the monitor, used by the HTTP API and
// the TUI. Unlike Update it includes the effective configuration.
type State struct {
	Target    string
	Method    string
	Interval  time.Duration
	Scale     render.Scale
	Tiers     int
	StartedAt time.Time
	Samples   []probe.Sample
	Sparkline string
	Stats     history.Stats
}

// Monitor owns the probe loop: one ticker, one prober, one sample window.
// Each tick runs probe → push → render → publish strictly in sequence, so a
// tick's work always completes before the next probe starts and only one
// probe is ever in flight.
//
// Configuration changes arrive over a channel and are applied between ticks;
// results leave over a single-slot channel. No display state is shared.
type Monitor struct {
	mu      sync.Mutex
	cfg     config.Config
	prober  probe.Prober
	ring    *history.Ring
	started time.Time

	updates chan Update
	reload  chan *config.Config
}

// Option customises a Monitor at construction time.
type Option func(*Monitor)

// WithProber replaces the config-derived prober. Tests use this to feed
// scripted samples without touching the network.
func WithProber(p probe.Prober) Option {
	return func(m *Monitor) { m.prober = p }
}

// New builds a Monitor from cfg. The window is prefilled with baseline
// samples when configured, so the first rendered frame is already full width.
func New(cfg *config.Config, opts ...Option) (*Monitor, error) {
	p, err := probe.New(cfg.Probe)
	if err != nil {
		return nil, err
	}

	ring := history.New(cfg.History.Size)
	if cfg.History.Prefill {
		ring.Prefill(cfg.History.Baseline)
	}

	m := &Monitor{
		cfg:     *cfg,
		prober:  p,
		ring:    ring,
		started: time.Now(),
		updates: make(chan Update, 1),
		reload:  make(chan *config.Config, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Updates returns the single-slot update channel. When the consumer lags,
// stale updates are replaced by newer ones — the display only ever wants the
// latest frame.
func (m *Monitor) Updates() <-chan Update {
	return m.updates
}

// Apply requests a configuration change. Non-blocking; if a previous change
// is still pending it is superseded. The change takes effect between ticks.
func (m *Monitor) Apply(cfg *config.Config) {
	select {
	case m.reload <- cfg:
	default:
		select {
		case <-m.reload:
		default:
		}
		m.reload <- cfg
	}
}

// Run drives the probe loop until ctx is cancelled. The first probe fires
// immediately; the ticker schedules the rest.
func (m *Monitor) Run(ctx context.Context) {
	interval := m.snapshotCfg().Probe.Interval
	t := time.NewTicker(interval)
	defer t.Stop()

	m.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-m.reload:
			m.applyConfig(cfg)
			if d := m.snapshotCfg().Probe.Interval; d != interval {
				interval = d
				t.Reset(interval)
			}
		case <-t.C:
			m.Tick(ctx)
		}
	}
}

// Tick performs one probe-update cycle and returns the published Update.
// Exported so tests can drive the loop without a ticker.
func (m *Monitor) Tick(ctx context.Context) Update {
	m.mu.Lock()
	p := m.prober
	r := m.ring
	sc := m.scaleLocked()
	m.mu.Unlock()

	s := p.Probe(ctx)
	r.Push(s)

	samples := r.Samples()
	u := Update{
		Sample:    s,
		Samples:   samples,
		Sparkline: render.Sparkline(samples, sc),
		Stats:     history.Summarize(samples),
	}
	m.publish(u)

	slog.Debug("monitor: tick", "ok", s.OK, "rtt", s.RTT)
	return u
}

// State returns the current configuration and window contents.
func (m *Monitor) State() State {
	m.mu.Lock()
	cfg := m.cfg
	r := m.ring
	sc := m.scaleLocked()
	started := m.started
	m.mu.Unlock()

	samples := r.Samples()
	return State{
		Target:    cfg.Probe.Target,
		Method:    cfg.Probe.Method,
		Interval:  cfg.Probe.Interval,
		Scale:     sc,
		Tiers:     cfg.Render.Tiers,
		StartedAt: started,
		Samples:   samples,
		Sparkline: render.Sparkline(samples, sc),
		Stats:     history.Summarize(samples),
	}
}

// --- internal ---------------------------------------------------------------

func (m *Monitor) snapshotCfg() config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func (m *Monitor) scaleLocked() render.Scale {
	return render.Scale{Min: m.cfg.Render.ScaleMin, Max: m.cfg.Render.ScaleMax}
}

// applyConfig swaps in a new prober, scale and window size. A prober build
// failure keeps the previous probe settings, mirroring the config watcher's
// keep-previous-on-error behaviour. The caller's cfg is never modified.
func (m *Monitor) applyConfig(cfg *config.Config) {
	next := *cfg

	p, err := probe.New(next.Probe)
	if err != nil {
		slog.Error("monitor: reload kept previous probe settings", "err", err)
		m.mu.Lock()
		next.Probe = m.cfg.Probe
		p = m.prober
		m.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if next.History.Size != m.ring.Cap() {
		m.ring = resize(m.ring, next.History.Size)
	}
	m.cfg = next
	m.prober = p

	slog.Info("monitor: config applied",
		"target", next.Probe.Target,
		"method", next.Probe.Method,
		"interval", next.Probe.Interval,
		"history", next.History.Size,
	)
}

// resize carries the newest samples from old into a ring of the new capacity.
func resize(old *history.Ring, capacity int) *history.Ring {
	r := history.New(capacity)
	samples := old.Samples()
	if n := len(samples); n > capacity {
		samples = samples[n-capacity:]
	}
	for _, s := range samples {
		r.Push(s)
	}
	return r
}

// publish delivers u with latest-wins semantics: if the slot is occupied the
// stale update is evicted first. The monitor goroutine is the only writer, so
// the follow-up send cannot block.
func (m *Monitor) publish(u Update) {
	select {
	case m.updates <- u:
	default:
		select {
		case <-m.updates:
		default:
		}
		m.updates <- u
	}
}
