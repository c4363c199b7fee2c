// Package dedupe guards against reprocessing an evaluation for a prediction.
//
// Every discrepancy must reference exactly one prediction, so the pipeline
// admits at most one evaluation per prediction id. The guard is a bounded
// seen-set with FIFO eviction once capacity is reached.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Guard records seen prediction ids to ensure at-most-once processing.
type Guard interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id from the seen set, allowing a retry. Used when
	// an evaluation was marked seen but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	// Size returns the current number of tracked ids.
	Size() int64
}

// inMemoryGuard implements Guard with a map plus a FIFO eviction ring.
// maxSize <= 0 disables eviction.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, oldest at head
	head    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryGuard creates a bounded in-memory guard.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[string]struct{})
	if g.maxSize > 0 {
		g.order = make([]string, 0, g.maxSize)
	}

	return g
}

func (g *inMemoryGuard) SeenAndRecord(_ context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}

	if g.maxSize > 0 && len(g.seen) >= g.maxSize {
		g.evictOldest()
	}

	g.seen[id] = struct{}{}
	if g.maxSize > 0 {
		g.order = append(g.order, id)
	}
	g.size.Add(1)
	return false
}

func (g *inMemoryGuard) Unrecord(_ context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; !ok {
		return
	}
	delete(g.seen, id)
	g.size.Add(-1)
	// The stale order entry is skipped at eviction time.
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}

// evictOldest drops the oldest still-tracked id. Must hold g.mu.
func (g *inMemoryGuard) evictOldest() {
	for g.head < len(g.order) {
		id := g.order[g.head]
		g.head++
		if _, ok := g.seen[id]; ok {
			delete(g.seen, id)
			g.size.Add(-1)
			break
		}
	}
	// Compact once the consumed prefix dominates the slice.
	if g.head > 0 && g.head*2 >= len(g.order) {
		g.order = append(g.order[:0], g.order[g.head:]...)
		g.head = 0
	}
}
