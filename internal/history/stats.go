package history

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/pingline/pingline/internal/probe"
)

// Histogram recording bounds: 1µs to 10s at 3 significant figures covers
// any round trip this tool will ever see.
const (
	histMin     = int64(1)
	histMax     = int64(10 * time.Second / time.Microsecond)
	histSigFigs = 3
)

// Stats summarises a window of samples.
// Duration fields are zero when the window holds no successful samples.
type Stats struct {
	Count  int // samples in the window
	Failed int // failed probes in the window

	LossPct float64

	Last   time.Duration // RTT of the newest sample
	LastOK bool          // whether the newest sample succeeded

	Min time.Duration
	Avg time.Duration
	Max time.Duration

	P50 time.Duration
	P90 time.Duration
	P99 time.Duration
}

// Summarize computes Stats over samples. Percentiles come from an HDR
// histogram recorded at microsecond resolution.
func Summarize(samples []probe.Sample) Stats {
	var st Stats
	st.Count = len(samples)
	if st.Count == 0 {
		return st
	}

	last := samples[len(samples)-1]
	st.LastOK = last.OK
	if last.OK {
		st.Last = last.RTT
	}

	h := hdrhistogram.New(histMin, histMax, histSigFigs)
	for _, s := range samples {
		if !s.OK {
			st.Failed++
			continue
		}
		// RecordValue only fails for values outside [histMin, histMax];
		// clamp instead of dropping so pathological RTTs still count.
		us := int64(s.RTT / time.Microsecond)
		if us < histMin {
			us = histMin
		} else if us > histMax {
			us = histMax
		}
		_ = h.RecordValue(us)
	}

	st.LossPct = float64(st.Failed) / float64(st.Count) * 100

	if h.TotalCount() == 0 {
		return st
	}
	st.Min = time.Duration(h.Min()) * time.Microsecond
	st.Avg = time.Duration(h.Mean()) * time.Microsecond
	st.Max = time.Duration(h.Max()) * time.Microsecond
	st.P50 = time.Duration(h.ValueAtQuantile(50)) * time.Microsecond
	st.P90 = time.Duration(h.ValueAtQuantile(90)) * time.Microsecond
	st.P99 = time.Duration(h.ValueAtQuantile(99)) * time.Microsecond
	return st
}
