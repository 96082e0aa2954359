package probe

import (
	"context"
	"log/slog"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// icmpProber sends one ICMP echo request per Probe call.
//
// By default it uses unprivileged UDP datagram sockets, which work without
// root on macOS and on Linux with net.ipv4.ping_group_range configured.
// Privileged mode switches to raw sockets.
type icmpProber struct {
	target     string
	timeout    time.Duration
	privileged bool
}

func (p *icmpProber) Probe(ctx context.Context) Sample {
	at := time.Now()

	pinger, err := probing.NewPinger(p.target)
	if err != nil {
		// Resolution failed — host is effectively unreachable this tick.
		slog.Debug("probe: icmp resolve failed", "target", p.target, "err", err)
		return failed(at)
	}
	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		slog.Debug("probe: icmp run failed", "target", p.target, "err", err)
		return failed(at)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		// Timed out waiting for the echo reply.
		return failed(at)
	}
	return Sample{At: at, RTT: stats.AvgRtt, OK: true}
}
