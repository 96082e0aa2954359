// Package monitor runs the probe loop. A Monitor owns the prober, the
// rolling sample window and the ticker; each tick probes once, pushes the
// sample, re-renders the window and publishes an Update over a single-slot
// latest-wins channel. Config reloads are message-passed in and applied
// between ticks.
package monitor
