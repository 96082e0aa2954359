package probe

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// tcpProber measures the time to complete a TCP connect to addr.
// It is the fallback for environments where ICMP sockets are unavailable;
// connect time tracks ICMP round-trip closely enough for a trend display.
type tcpProber struct {
	addr    string
	timeout time.Duration
}

func (p *tcpProber) Probe(ctx context.Context) Sample {
	at := time.Now()

	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		slog.Debug("probe: tcp dial failed", "addr", p.addr, "err", err)
		return failed(at)
	}
	rtt := time.Since(at)
	conn.Close()

	return Sample{At: at, RTT: rtt, OK: true}
}
