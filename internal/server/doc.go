// Package server exposes the monitor over a local HTTP endpoint: JSON status
// and history, the sparkline as plain text, the bar-strip histogram as PNG,
// and a Prometheus /metrics exposition. Status-bar shims (xbar, SwiftBar and
// friends) poll these endpoints instead of linking against a platform UI.
package server
