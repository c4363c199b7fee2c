// Package queue defines the contract for enqueuing and consuming
// evaluations awaiting discrepancy analysis.
package queue

import (
	"context"
	"sync"

	"github.com/avelier/trustline/internal/domain/model"
	"github.com/avelier/trustline/pkg/metrics"
)

const defaultCapacity = 100000

// Evaluation is the payload type flowing through the queue.
type Evaluation = model.Evaluation

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an evaluation to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, e Evaluation) bool

	// Dequeue returns a channel receiving evaluations as they become
	// available. The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Evaluation

	// Len returns the current number of queued evaluations.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, no new evaluations can
	// be enqueued and the dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	evaluations chan Evaluation
	capacity    int
	mu          sync.RWMutex
	closed      bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.evaluations = make(chan Evaluation, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds an evaluation to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Evaluation) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.evaluations <- e:
		size := len(q.evaluations)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// queue full
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns a channel receiving evaluations as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Evaluation {
	out := make(chan Evaluation)
	go func() {
		defer close(out)
		for e := range q.evaluations {
			select {
			case out <- e:
				size := len(q.evaluations)
				metrics.UpdateQueueSize(size)
				metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued evaluations.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.evaluations)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.evaluations)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
