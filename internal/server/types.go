package server

import (
	"time"

	"github.com/pingline/pingline/internal/monitor"
	"github.com/pingline/pingline/internal/probe"
	"github.com/pingline/pingline/internal/render"
)

// StatusResponse is the JSON body of GET /api/v1/status and the payload of
// every WebSocket broadcast. Durations are reported in milliseconds to match
// how latency monitors conventionally expose RTTs.
type StatusResponse struct {
	Target     string  `json:"target"`
	Method     string  `json:"method"`
	IntervalMS float64 `json:"interval_ms"`
	ScaleMinMS float64 `json:"scale_min_ms"`
	ScaleMaxMS float64 `json:"scale_max_ms"`
	Tiers      int     `json:"tiers"`

	Samples   int     `json:"samples"`
	Failed    int     `json:"failed"`
	LossPct   float64 `json:"loss_pct"`
	LastOK    bool    `json:"last_ok"`
	LastMS    float64 `json:"last_ms"`
	MinMS     float64 `json:"min_ms"`
	AvgMS     float64 `json:"avg_ms"`
	MaxMS     float64 `json:"max_ms"`
	P50MS     float64 `json:"p50_ms"`
	P90MS     float64 `json:"p90_ms"`
	P99MS     float64 `json:"p99_ms"`
	Sparkline string  `json:"sparkline"`

	UptimeSec   float64 `json:"uptime_sec"`
	GeneratedAt string  `json:"generated_at"`
}

// SampleResponse is one window entry in GET /api/v1/history.
type SampleResponse struct {
	At    string  `json:"at"`
	OK    bool    `json:"ok"`
	RTTMS float64 `json:"rtt_ms"`
	Level int     `json:"level"`
}

// BuildStatus converts a monitor snapshot into the API representation.
func BuildStatus(st monitor.State) StatusResponse {
	return StatusResponse{
		Target:     st.Target,
		Method:     st.Method,
		IntervalMS: ms(st.Interval),
		ScaleMinMS: ms(st.Scale.Min),
		ScaleMaxMS: ms(st.Scale.Max),
		Tiers:      st.Tiers,

		Samples:   st.Stats.Count,
		Failed:    st.Stats.Failed,
		LossPct:   st.Stats.LossPct,
		LastOK:    st.Stats.LastOK,
		LastMS:    ms(st.Stats.Last),
		MinMS:     ms(st.Stats.Min),
		AvgMS:     ms(st.Stats.Avg),
		MaxMS:     ms(st.Stats.Max),
		P50MS:     ms(st.Stats.P50),
		P90MS:     ms(st.Stats.P90),
		P99MS:     ms(st.Stats.P99),
		Sparkline: st.Sparkline,

		UptimeSec:   time.Since(st.StartedAt).Seconds(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func toSampleResponse(s probe.Sample, sc render.Scale, tiers int) SampleResponse {
	resp := SampleResponse{
		At:    s.At.UTC().Format(time.RFC3339Nano),
		OK:    s.OK,
		Level: render.Level(s, sc, tiers),
	}
	if s.OK {
		resp.RTTMS = ms(s.RTT)
	}
	return resp
}
