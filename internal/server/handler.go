package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pingline/pingline/internal/monitor"
	"github.com/pingline/pingline/internal/render"
)

// Handler is the HTTP handler for the local API. It reads monitor state on
// every request and returns JSON, plain text, PNG or Prometheus exposition
// depending on the endpoint.
type Handler struct {
	mon *monitor.Monitor
	mux *http.ServeMux
}

// New creates a Handler wired to the given monitor and registers all routes.
func New(mon *monitor.Monitor) *Handler {
	h := &Handler{mon: mon, mux: http.NewServeMux()}

	h.mux.HandleFunc("/healthz", h.healthz)
	h.mux.HandleFunc("/api/v1/status", h.status)
	h.mux.HandleFunc("/api/v1/history", h.history)
	h.mux.HandleFunc("/api/v1/sparkline", h.sparkline)
	h.mux.HandleFunc("/api/v1/histogram.png", h.histogram)
	h.mux.HandleFunc("/metrics", h.metrics)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// healthz returns GET /healthz — process liveness only.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "ok"})
}

// status returns GET /api/v1/status — target, window summary and sparkline.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildStatus(h.mon.State()))
}

// history returns GET /api/v1/history — every sample in the window,
// oldest first.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st := h.mon.State()
	out := make([]SampleResponse, 0, len(st.Samples))
	for _, s := range st.Samples {
		out = append(out, toSampleResponse(s, st.Scale, st.Tiers))
	}
	jsonResp(w, http.StatusOK, out)
}

// sparkline returns GET /api/v1/sparkline — the glyph strip as text/plain,
// ready for a status-bar shim to display verbatim.
func (h *Handler) sparkline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.mon.State().Sparkline + "\n")) //nolint:errcheck
}

// histogram returns GET /api/v1/histogram.png — the bar-strip image.
// An empty window yields 204 No Content.
func (h *Handler) histogram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st := h.mon.State()
	img := render.Histogram(st.Samples, st.Scale)
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := render.EncodePNG(w, img); err != nil {
		// Headers are gone; nothing useful left to send.
		return
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, map[string]string{"error": msg})
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
