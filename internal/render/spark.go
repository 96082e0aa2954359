package render

import (
	"strings"

	"github.com/pingline/pingline/internal/probe"
)

// sparkGlyphs are the 8 block-element tiers used for the text sparkline,
// lowest latency first.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders samples as one glyph each, oldest to newest left to
// right. Failed probes render as the full block — the worst-case tier.
// An empty window renders as the empty string.
func Sparkline(samples []probe.Sample, sc Scale) string {
	if len(samples) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(samples) * 3) // block elements are 3 bytes in UTF-8
	for _, s := range samples {
		b.WriteRune(sparkGlyphs[Level(s, sc, len(sparkGlyphs))])
	}
	return b.String()
}
