package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/monitor"
	"github.com/pingline/pingline/internal/probe"
	"github.com/pingline/pingline/internal/server"
)

// --- test helpers -----------------------------------------------------------

// newMonitor builds a monitor with a 10-sample window and ticks it once per
// entry in rttMS; a negative entry produces a failed probe.
func newMonitor(t *testing.T, rttMS ...int) *monitor.Monitor {
	t.Helper()

	cfg := config.Default()
	cfg.History.Size = 10
	cfg.History.Prefill = false

	i := -1
	mon, err := monitor.New(cfg, monitor.WithProber(probe.Func(func(ctx context.Context) probe.Sample {
		i++
		if rttMS[i] < 0 {
			return probe.Sample{At: time.Now()}
		}
		return probe.Sample{
			At:  time.Now(),
			RTT: time.Duration(rttMS[i]) * time.Millisecond,
			OK:  true,
		}
	})))
	if err != nil {
		t.Fatalf("monitor.New: %v", err)
	}
	for range rttMS {
		mon.Tick(context.Background())
	}
	return mon
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /healthz ---------------------------------------------------------------

func TestHealthz(t *testing.T) {
	h := server.New(newMonitor(t, 10))
	rr := get(t, h, "/healthz")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status field: got %q, want ok", resp["status"])
	}
}

// --- /api/v1/status ---------------------------------------------------------

func TestStatus(t *testing.T) {
	h := server.New(newMonitor(t, 10, 20, -1, 30))
	rr := get(t, h, "/api/v1/status")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp server.StatusResponse
	decode(t, rr, &resp)

	if resp.Target != config.DefaultTarget {
		t.Errorf("target: got %q, want %q", resp.Target, config.DefaultTarget)
	}
	if resp.Samples != 4 {
		t.Errorf("samples: got %d, want 4", resp.Samples)
	}
	if resp.Failed != 1 {
		t.Errorf("failed: got %d, want 1", resp.Failed)
	}
	if resp.LossPct != 25 {
		t.Errorf("loss_pct: got %v, want 25", resp.LossPct)
	}
	if !resp.LastOK {
		t.Error("last_ok: got false, want true")
	}
	if got := []rune(resp.Sparkline); len(got) != 4 {
		t.Errorf("sparkline length: got %d, want 4", len(got))
	}
	if resp.ScaleMaxMS != 100 {
		t.Errorf("scale_max_ms: got %v, want 100", resp.ScaleMaxMS)
	}
}

func TestStatus_MethodNotAllowed(t *testing.T) {
	h := server.New(newMonitor(t, 10))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/status", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/history --------------------------------------------------------

func TestHistory_OrderAndLevels(t *testing.T) {
	h := server.New(newMonitor(t, 10, 200, -1, 50))
	rr := get(t, h, "/api/v1/history")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp []server.SampleResponse
	decode(t, rr, &resp)

	if len(resp) != 4 {
		t.Fatalf("history: got %d entries, want 4", len(resp))
	}
	if resp[0].RTTMS != 10 {
		t.Errorf("oldest rtt_ms: got %v, want 10", resp[0].RTTMS)
	}
	if resp[1].Level != 7 {
		t.Errorf("clamped level: got %d, want 7", resp[1].Level)
	}
	if resp[2].OK || resp[2].Level != 7 {
		t.Errorf("failed sample: got ok=%v level=%d, want ok=false level=7", resp[2].OK, resp[2].Level)
	}
	if resp[3].RTTMS != 50 || resp[3].Level != 4 {
		t.Errorf("newest: got rtt=%v level=%d, want 50/4", resp[3].RTTMS, resp[3].Level)
	}
}

// --- /api/v1/sparkline ------------------------------------------------------

func TestSparkline_PlainText(t *testing.T) {
	h := server.New(newMonitor(t, 0, 100))
	rr := get(t, h, "/api/v1/sparkline")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content-type: got %q, want text/plain", ct)
	}
	if got := strings.TrimSuffix(rr.Body.String(), "\n"); got != "▁█" {
		t.Errorf("body: got %q, want ▁█", got)
	}
}

// --- /api/v1/histogram.png --------------------------------------------------

func TestHistogram_PNG(t *testing.T) {
	h := server.New(newMonitor(t, 10, 20, 30))
	rr := get(t, h, "/api/v1/histogram.png")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type: got %q, want image/png", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body does not start with PNG magic")
	}
}

func TestHistogram_EmptyWindowNoContent(t *testing.T) {
	cfg := config.Default()
	cfg.History.Prefill = false
	mon, err := monitor.New(cfg)
	if err != nil {
		t.Fatalf("monitor.New: %v", err)
	}

	rr := get(t, server.New(mon), "/api/v1/histogram.png")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
}

// --- /metrics ---------------------------------------------------------------

func TestMetrics_Exposition(t *testing.T) {
	h := server.New(newMonitor(t, 10, -1))
	rr := get(t, h, "/metrics")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()

	for _, want := range []string{
		"pingline_probe_success",
		"pingline_last_rtt_seconds",
		`pingline_rtt_seconds{target="google.com",quantile="0.99"}`,
		"pingline_packet_loss_ratio",
		"pingline_window_samples",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q\nbody:\n%s", want, body)
		}
	}
	if !strings.Contains(body, "pingline_probe_success{target=\"google.com\"} 0") {
		t.Errorf("probe_success should be 0 after a failed newest probe\nbody:\n%s", body)
	}
}
