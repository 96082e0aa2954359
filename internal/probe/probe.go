package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/pingline/pingline/internal/config"
)

// Sample is the outcome of one probe. It is immutable once created.
// A failed probe (timeout, unreachable, no reply) has OK=false and a zero RTT;
// failure is data, never an error the caller has to branch on.
type Sample struct {
	At  time.Time
	RTT time.Duration
	OK  bool
}

// Prober issues a single probe against a fixed target.
// Probe blocks for at most the configured timeout and always returns a
// Sample — network failures are reported through Sample.OK.
type Prober interface {
	Probe(ctx context.Context) Sample
}

// Func adapts a plain function to the Prober interface. Used by tests and
// anywhere a one-off prober is convenient.
type Func func(ctx context.Context) Sample

func (f Func) Probe(ctx context.Context) Sample { return f(ctx) }

// New returns the Prober for the given probe configuration.
func New(cfg config.ProbeConfig) (Prober, error) {
	switch cfg.Method {
	case "icmp":
		return &icmpProber{
			target:     cfg.Target,
			timeout:    cfg.Timeout,
			privileged: cfg.Privileged,
		}, nil
	case "tcp":
		return &tcpProber{
			addr:    fmt.Sprintf("%s:%d", cfg.Target, cfg.Port),
			timeout: cfg.Timeout,
		}, nil
	default:
		return nil, fmt.Errorf("probe: unsupported method %q", cfg.Method)
	}
}

// failed builds a failure Sample stamped at t.
func failed(t time.Time) Sample {
	return Sample{At: t}
}
