package render

import (
	"math"
	"time"

	"github.com/pingline/pingline/internal/probe"
)

// Scale is the fixed latency range used to normalise round-trip times for
// display. Values outside the range clamp to its edges.
type Scale struct {
	Min time.Duration
	Max time.Duration
}

// Normalize maps rtt into [0,1] over the scale, clamping at the edges.
func (sc Scale) Normalize(rtt time.Duration) float64 {
	if sc.Max <= sc.Min {
		return 1
	}
	f := float64(rtt-sc.Min) / float64(sc.Max-sc.Min)
	return math.Max(0, math.Min(1, f))
}

// Level quantises a sample into one of tiers discrete display levels,
// 0 (best) through tiers-1 (worst). A failed probe maps to the worst level,
// as does any round trip at or above the scale maximum. Within the scale the
// mapping is linear, rounded to the nearest tier, and monotonic in RTT.
func Level(s probe.Sample, sc Scale, tiers int) int {
	if tiers < 2 {
		return 0
	}
	if !s.OK {
		return tiers - 1
	}
	return int(math.Round(sc.Normalize(s.RTT) * float64(tiers-1)))
}
