// Package probe issues single latency probes against a fixed target.
// Each probe produces a Sample{At, RTT, OK}; failures (timeout, unreachable,
// resolution error) become failure Samples rather than errors, so callers
// have exactly one path regardless of outcome.
//
// Implemented probers: ICMP echo via pro-bing (icmp.go) and TCP connect
// timing (tcp.go). Factory: New(config.ProbeConfig) returns the correct
// Prober.
package probe
