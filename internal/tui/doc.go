// Package tui renders the rolling latency window in the terminal with
// termui: a sparkline group and a summary stats table, redrawn on every
// monitor update.
package tui
