// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	evalqueue "github.com/avelier/trustline/internal/adapters/mq/queue"
	workerpool "github.com/avelier/trustline/internal/adapters/mq/worker"
	repository "github.com/avelier/trustline/internal/adapters/repository"
	"github.com/avelier/trustline/internal/domain/dedupe"
	"github.com/avelier/trustline/internal/domain/discrepancy"
	"github.com/avelier/trustline/internal/domain/model"
	"github.com/avelier/trustline/internal/domain/reputation"
	"github.com/avelier/trustline/internal/domain/trust"
	"github.com/avelier/trustline/internal/domain/types"
	"github.com/avelier/trustline/pkg/logger"
	"github.com/avelier/trustline/pkg/metrics"

	"github.com/google/uuid"
)

// Service implements the scoring and reputation pipeline behind the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.MemStore
	ranking    repository.RankStore
	journal    repository.Journal
	guard      dedupe.Guard
	queue      evalqueue.Queue
	trustEng   *trust.Engine
	analyzer   discrepancy.Analyzer
	reputation *reputation.Engine
	pool       *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	windowSize  int
	shardCount  int
	journalPath string
	weights     [4]float64
	deltas      map[model.AccuracyCategory]float64

	// State
	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100000,
		dedupeSize:  50000,
		windowSize:  trust.DefaultWindowSize,
		shardCount:  8,
		weights:     [4]float64{0.35, 0.25, 0.30, 0.10},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring service...")

	s.store = repository.NewMemStore(
		repository.WithWindowSize(s.windowSize),
		repository.WithShardCount(s.shardCount),
		repository.WithProfileFactory(func(id string) model.EvaluatorProfile {
			return reputation.NewProfile(id, time.Now())
		}),
	)
	s.ranking = repository.NewTreapStore(ctx)
	s.guard = dedupe.NewInMemoryGuard(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = evalqueue.NewInMemoryQueue(evalqueue.WithCapacity(s.queueSize))

	s.trustEng = trust.NewEngine(
		trust.WithWindowSize(s.windowSize),
		trust.WithWeights(s.weights[0], s.weights[1], s.weights[2], s.weights[3]),
	)
	s.analyzer = discrepancy.NewAnalyzer()
	repOpts := []reputation.Option{}
	if len(s.deltas) > 0 {
		repOpts = append(repOpts, reputation.WithDeltas(s.deltas))
	}
	s.reputation = reputation.NewEngine(repOpts...)

	if s.journalPath != "" {
		j, err := repository.NewSQLiteJournal(ctx, s.journalPath)
		if err != nil {
			return fmt.Errorf("open reputation journal: %w", err)
		}
		s.journal = j
		s.logger.Info(ctx, "using sqlite journal", logger.String("path", s.journalPath))
	} else {
		s.journal = repository.NewMemJournal()
		s.logger.Info(ctx, "using in-memory journal")
	}

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store, s.analyzer, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("windowSize", s.windowSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	if q, ok := s.queue.(*evalqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warn(ctx, "journal close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// SeenAndRecord atomically checks if a prediction id was already evaluated
// and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.guard.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEvaluationDuplicate()
	}
	return seen
}

// Unrecord removes a prediction id from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.guard.Unrecord(ctx, id)
}

// Size returns the number of tracked prediction ids.
func (s *Service) Size() int64 {
	if s.guard == nil {
		return 0
	}
	return s.guard.Size()
}

// RecordTest appends one observation and synchronously recomputes the
// endpoint's trust score. The recompute is pure and idempotent; the cached
// snapshot is an overwritable read optimization.
func (s *Service) RecordTest(ctx context.Context, rec model.TestRecord) (model.TrustScore, error) {
	start := time.Now()

	if err := s.store.Append(ctx, rec); err != nil {
		return model.TrustScore{}, fmt.Errorf("append test record: %w", err)
	}

	window := s.store.Window(ctx, rec.EndpointID)
	score := s.trustEng.Score(rec.EndpointID, window, time.Now())
	s.store.Put(ctx, score)

	metrics.RecordTestScored()
	metrics.RecordScoreComputeLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateEndpointsTracked(s.store.Count(ctx))

	return score, nil
}

// Score returns the cached trust score snapshot for an endpoint.
func (s *Service) Score(ctx context.Context, endpointID string) (model.TrustScore, error) {
	return s.store.Get(ctx, endpointID)
}

// RegisterPrediction validates and stores a forecast made before ground
// truth is known. The id is assigned here when the caller leaves it empty.
func (s *Service) RegisterPrediction(ctx context.Context, p model.Prediction) (model.Prediction, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if err := s.store.PutPrediction(ctx, p); err != nil {
		return model.Prediction{}, err
	}
	metrics.RecordPredictionRegistered()
	return p, nil
}

// Prediction returns a stored prediction by id.
func (s *Service) Prediction(ctx context.Context, id string) (model.Prediction, error) {
	return s.store.GetPrediction(ctx, id)
}

// Enqueue submits an evaluation for asynchronous discrepancy analysis.
// Returns false on backpressure.
func (s *Service) Enqueue(ctx context.Context, e model.Evaluation) bool {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.TS.IsZero() {
		e.TS = time.Now()
	}

	ok := s.queue.Enqueue(ctx, e)
	if ok {
		metrics.RecordEvaluationAccepted()
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// Record persists a discrepancy and applies the evaluator's reputation
// update. The profile store serializes updates per evaluator, so two
// concurrent discrepancies for the same evaluator both land.
func (s *Service) Record(ctx context.Context, d model.Discrepancy) error {
	if err := s.store.AppendDiscrepancy(ctx, d); err != nil {
		return fmt.Errorf("persist discrepancy: %w", err)
	}

	var snap model.ReputationSnapshot
	var clamped bool
	updated, err := s.store.UpdateProfile(ctx, d.EvaluatorID, func(p model.EvaluatorProfile) (model.EvaluatorProfile, error) {
		before := p.TrustScore
		next, sn := s.reputation.Apply(p, d)
		snap = sn
		clamped = before+s.reputation.Delta(d.Category) != next.TrustScore
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("update profile for %s: %w", d.EvaluatorID, err)
	}

	metrics.RecordReputationUpdate()
	if clamped {
		metrics.RecordReputationClamp()
	}
	metrics.UpdateEvaluatorsTracked(s.store.ProfileCount(ctx))

	if err := s.ranking.Set(ctx, updated.EvaluatorID, updated.TrustScore); err != nil {
		return fmt.Errorf("update ranking for %s: %w", updated.EvaluatorID, err)
	}

	if err := s.journal.Append(ctx, snap); err != nil {
		metrics.RecordJournalError()
		return fmt.Errorf("append reputation snapshot: %w", err)
	}

	return nil
}

// Evaluator returns the evaluator's current profile.
func (s *Service) Evaluator(ctx context.Context, evaluatorID string) (model.EvaluatorProfile, error) {
	return s.store.GetProfile(ctx, evaluatorID)
}

// History returns the evaluator's reputation snapshots, newest first.
func (s *Service) History(ctx context.Context, evaluatorID string, limit int) ([]model.ReputationSnapshot, error) {
	return s.journal.History(ctx, evaluatorID, limit)
}

// TopN returns the top-n evaluator leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.ranking.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{Rank: e.Rank, EvaluatorID: e.EvaluatorID, TrustScore: e.TrustScore}
	}
	return out, nil
}

// Rank returns the rank entry for one evaluator.
func (s *Service) Rank(ctx context.Context, evaluatorID string) (types.Entry, error) {
	e, err := s.ranking.Rank(ctx, evaluatorID)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{Rank: e.Rank, EvaluatorID: e.EvaluatorID, TrustScore: e.TrustScore}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:     s.started,
		WorkerCount: s.workerCount,
	}

	if s.started {
		ctx := context.Background()
		stats.QueueLength = s.queue.Len(ctx)
		stats.TotalEvaluators = s.store.ProfileCount(ctx)
		stats.TotalEndpoints = s.store.Count(ctx)

		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateEvaluatorsTracked(stats.TotalEvaluators)
		metrics.UpdateEndpointsTracked(stats.TotalEndpoints)
	}

	return stats
}
