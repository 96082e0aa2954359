package server

import (
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// metrics returns GET /metrics — the window summary in Prometheus text
// exposition format, so the monitor can itself be scraped.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st := h.mon.State()
	target := label("target", st.Target)

	var lastOK float64
	if st.Stats.LastOK {
		lastOK = 1
	}

	families := []*dto.MetricFamily{
		gaugeFamily("pingline_probe_success",
			"Whether the most recent probe received a reply.",
			gauge(lastOK, target)),
		gaugeFamily("pingline_last_rtt_seconds",
			"Round-trip time of the most recent successful probe.",
			gauge(seconds(st.Stats.Last), target)),
		gaugeFamily("pingline_rtt_seconds",
			"Round-trip time quantiles over the rolling window.",
			gauge(seconds(st.Stats.P50), target, label("quantile", "0.5")),
			gauge(seconds(st.Stats.P90), target, label("quantile", "0.9")),
			gauge(seconds(st.Stats.P99), target, label("quantile", "0.99"))),
		gaugeFamily("pingline_packet_loss_ratio",
			"Fraction of probes in the rolling window that failed.",
			gauge(st.Stats.LossPct/100, target)),
		gaugeFamily("pingline_window_samples",
			"Number of samples currently in the rolling window.",
			gauge(float64(st.Stats.Count), target)),
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

// --- dto construction helpers -----------------------------------------------

func gaugeFamily(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{
		Name:  proto.String(name),
		Value: proto.String(value),
	}
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}
