package history

import (
	"sync"
	"time"

	"github.com/pingline/pingline/internal/probe"
)

// Ring is a thread-safe fixed-capacity window over the most recent samples.
// Pushing at capacity evicts the oldest sample; insertion order is temporal
// order. The monitor goroutine writes, HTTP/WS/TUI readers read.
type Ring struct {
	mu    sync.RWMutex
	data  []probe.Sample
	head  int // next write position
	count int
	now   func() time.Time // injectable for deterministic tests
}

// New creates a Ring holding up to capacity samples.
// Capacity must be positive; config validation enforces this upstream.
func New(capacity int) *Ring {
	return &Ring{
		data: make([]probe.Sample, capacity),
		now:  time.Now,
	}
}

// Push appends one sample, evicting the oldest when the ring is full.
// Always valid; mutates internal state only.
func (r *Ring) Push(s probe.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[r.head] = s
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Samples returns a copy of the current contents in temporal order,
// oldest first. An empty ring returns nil.
func (r *Ring) Samples() []probe.Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return nil
	}
	out := make([]probe.Sample, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Len returns the number of samples currently held.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Prefill fills the ring to capacity with successful baseline samples so the
// rendered window has a constant width from the first tick. It overwrites
// any existing contents.
func (r *Ring) Prefill(baseline time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at := r.now()
	for i := range r.data {
		r.data[i] = probe.Sample{At: at, RTT: baseline, OK: true}
	}
	r.head = 0
	r.count = len(r.data)
}
