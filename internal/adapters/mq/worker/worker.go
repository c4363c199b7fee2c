// Package worker defines workers that turn queued evaluations into
// discrepancies and reputation updates.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/avelier/trustline/internal/adapters/mq/queue"
	"github.com/avelier/trustline/internal/domain/model"
	"github.com/avelier/trustline/pkg/logger"
	"github.com/avelier/trustline/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Evaluation is what workers read off the queue.
type Evaluation = model.Evaluation

// Predictions loads the stored prediction an evaluation refers to.
type Predictions interface {
	GetPrediction(ctx context.Context, id string) (model.Prediction, error)
}

// Analyzer produces a discrepancy from a prediction and its outcome.
type Analyzer interface {
	Analyze(p model.Prediction, e model.Evaluation) model.Discrepancy
}

// Recorder persists a discrepancy and applies the reputation update.
// Implementations own the per-evaluator atomicity boundary.
type Recorder interface {
	Record(ctx context.Context, d model.Discrepancy) error
}

// Queue defines how workers receive evaluations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Evaluation
}

// Worker processes evaluations until stopped.
type Worker struct {
	queue       Queue
	predictions Predictions
	analyzer    Analyzer
	recorder    Recorder
	name        string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(q Queue, predictions Predictions, analyzer Analyzer, recorder Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:       q,
		predictions: predictions,
		analyzer:    analyzer,
		recorder:    recorder,
		name:        "worker",
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	evaluations := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-evaluations:
			if !ok {
				return
			}
			if err := w.process(ctx, e); err != nil {
				w.logger.Error(ctx, "evaluation processing failed",
					logger.String("evaluationID", e.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight evaluation.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, e queue.Evaluation) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	prediction, err := w.predictions.GetPrediction(ctx, e.PredictionID)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("load prediction %s: %w", e.PredictionID, err)
	}

	d := w.analyzer.Analyze(prediction, e)
	metrics.RecordDiscrepancy(string(d.Category))

	if err := w.recorder.Record(ctx, d); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("record discrepancy %s: %w", d.ID, err)
	}

	return nil
}

// Pool manages a fixed set of workers draining one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of count workers sharing the queue and
// collaborators.
func NewPool(count int, q Queue, predictions Predictions, analyzer Analyzer, recorder Recorder) *Pool {
	if count < 1 {
		count = 1
	}

	p := &Pool{
		workers: make([]*Worker, 0, count),
		logger:  logger.Get().Named("workerpool"),
	}
	for i := 0; i < count; i++ {
		p.workers = append(p.workers, New(q, predictions, analyzer, recorder,
			WithName(fmt.Sprintf("worker-%d", i)),
		))
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop shuts all workers down, bounded by the shutdown timeout.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
