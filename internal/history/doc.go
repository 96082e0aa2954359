// Package history holds the rolling sample window and derives summary
// statistics from it. Ring is a fixed-capacity FIFO over probe.Sample;
// Summarize produces loss percentage and HDR-histogram latency percentiles
// for display and the API.
package history
