package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/monitor"
	"github.com/pingline/pingline/internal/probe"
	wsHub "github.com/pingline/pingline/internal/ws"
)

const readTimeout = time.Second

// --- helpers ----------------------------------------------------------------

func newMonitor(t *testing.T) *monitor.Monitor {
	t.Helper()

	cfg := config.Default()
	cfg.History.Size = 5
	cfg.History.Prefill = false

	mon, err := monitor.New(cfg, monitor.WithProber(probe.Func(func(ctx context.Context) probe.Sample {
		return probe.Sample{At: time.Now(), RTT: 25 * time.Millisecond, OK: true}
	})))
	if err != nil {
		t.Fatalf("monitor.New: %v", err)
	}
	return mon
}

// startHub starts a test HTTP server with the hub as its handler.
// Returns the ws:// URL and the hub; cleanup is registered on t.
func startHub(t *testing.T, mon *monitor.Monitor) (string, *wsHub.Hub) {
	t.Helper()

	hub := wsHub.New(mon)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal message: %v (raw: %s)", err, data)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestConnect_ReceivesSnapshot(t *testing.T) {
	mon := newMonitor(t)
	mon.Tick(context.Background())

	wsURL, _ := startHub(t, mon)
	conn := dial(t, wsURL)

	msg := readMessage(t, conn)
	if msg.Event != "status" {
		t.Errorf("event: got %q, want status", msg.Event)
	}
	if msg.Data.Samples != 1 {
		t.Errorf("samples: got %d, want 1", msg.Data.Samples)
	}
	if msg.Data.Target != config.DefaultTarget {
		t.Errorf("target: got %q, want %q", msg.Data.Target, config.DefaultTarget)
	}
}

func TestBroadcast_ReachesAllClients(t *testing.T) {
	mon := newMonitor(t)
	mon.Tick(context.Background())

	wsURL, hub := startHub(t, mon)
	c1 := dial(t, wsURL)
	c2 := dial(t, wsURL)

	// Drain the on-connect snapshots.
	readMessage(t, c1)
	readMessage(t, c2)

	waitForClients(t, hub, 2)

	mon.Tick(context.Background())
	hub.Broadcast()

	for i, conn := range []*websocket.Conn{c1, c2} {
		msg := readMessage(t, conn)
		if msg.Data.Samples != 2 {
			t.Errorf("client %d: samples got %d, want 2", i+1, msg.Data.Samples)
		}
	}
}

func TestCount_TracksConnections(t *testing.T) {
	mon := newMonitor(t)
	wsURL, hub := startHub(t, mon)

	if hub.Count() != 0 {
		t.Fatalf("initial Count: got %d, want 0", hub.Count())
	}

	conn := dial(t, wsURL)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

// waitForClients polls until the hub reports n clients or the deadline hits.
func waitForClients(t *testing.T, hub *wsHub.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		if hub.Count() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Count: got %d, want %d", hub.Count(), n)
}
