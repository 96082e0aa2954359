// Package render maps latency samples to visual form. Level quantises one
// sample into a discrete tier over a fixed Scale; Sparkline concatenates
// 8-tier block glyphs for terminal and API display; Histogram draws the
// classic 3x18px bar strip as a PNG for status-bar consumers. All functions
// are pure — output depends only on the samples and the scale.
package render
