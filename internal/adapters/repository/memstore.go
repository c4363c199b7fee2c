package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/avelier/trustline/internal/domain/model"
)

// Default store configuration constants.
const (
	defaultWindowSize = 100
	defaultShardCount = 8
)

// MemStore is the in-memory implementation of the scoring state stores:
// test record windows, trust score cache, predictions, discrepancies and
// evaluator profiles.
//
// Profile updates use per-shard locking so that two discrepancies for the
// same evaluator serialize on one lock while unrelated evaluators proceed
// in parallel. This is the per-evaluator atomic read-modify-write boundary
// that prevents lost updates.
type MemStore struct {
	windowSize int
	shardCount int
	newProfile func(evaluatorID string) model.EvaluatorProfile

	windowsMu sync.RWMutex
	windows   map[string][]model.TestRecord // per endpoint, oldest first

	scoresMu sync.RWMutex
	scores   map[string]model.TrustScore

	predictionsMu sync.RWMutex
	predictions   map[string]model.Prediction

	discrepanciesMu sync.RWMutex
	discrepancies   map[string][]model.Discrepancy // per evaluator, oldest first

	shards []*profileShard
}

type profileShard struct {
	mu       sync.RWMutex
	profiles map[string]model.EvaluatorProfile
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		windowSize: defaultWindowSize,
		shardCount: defaultShardCount,
		newProfile: func(evaluatorID string) model.EvaluatorProfile {
			return model.EvaluatorProfile{EvaluatorID: evaluatorID, FirstSeenAt: time.Now()}
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.windows = make(map[string][]model.TestRecord)
	s.scores = make(map[string]model.TrustScore)
	s.predictions = make(map[string]model.Prediction)
	s.discrepancies = make(map[string][]model.Discrepancy)
	s.shards = make([]*profileShard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &profileShard{profiles: make(map[string]model.EvaluatorProfile)}
	}

	return s
}

// Append adds one observation to the endpoint's window, discarding the
// oldest entry beyond the window size.
func (s *MemStore) Append(_ context.Context, rec model.TestRecord) error {
	s.windowsMu.Lock()
	defer s.windowsMu.Unlock()

	w := append(s.windows[rec.EndpointID], rec)
	if len(w) > s.windowSize {
		w = w[len(w)-s.windowSize:]
	}
	s.windows[rec.EndpointID] = w
	return nil
}

// Window returns the endpoint's records newest first.
func (s *MemStore) Window(_ context.Context, endpointID string) []model.TestRecord {
	s.windowsMu.RLock()
	defer s.windowsMu.RUnlock()

	w := s.windows[endpointID]
	out := make([]model.TestRecord, len(w))
	for i, r := range w {
		out[len(w)-1-i] = r
	}
	return out
}

// Put stores a trust score snapshot, overwriting any prior one.
func (s *MemStore) Put(_ context.Context, score model.TrustScore) {
	s.scoresMu.Lock()
	defer s.scoresMu.Unlock()
	s.scores[score.EndpointID] = score
}

// Get returns the cached trust score for an endpoint.
func (s *MemStore) Get(_ context.Context, endpointID string) (model.TrustScore, error) {
	s.scoresMu.RLock()
	defer s.scoresMu.RUnlock()

	score, ok := s.scores[endpointID]
	if !ok {
		return model.TrustScore{}, ErrNotFound
	}
	return score, nil
}

// Count returns the number of endpoints with a cached score.
func (s *MemStore) Count(_ context.Context) int {
	s.scoresMu.RLock()
	defer s.scoresMu.RUnlock()
	return len(s.scores)
}

// PutPrediction stores a prediction, rejecting duplicate ids.
func (s *MemStore) PutPrediction(_ context.Context, p model.Prediction) error {
	s.predictionsMu.Lock()
	defer s.predictionsMu.Unlock()

	if _, ok := s.predictions[p.ID]; ok {
		return ErrConflict
	}
	s.predictions[p.ID] = p
	return nil
}

// GetPrediction returns a prediction by id.
func (s *MemStore) GetPrediction(_ context.Context, id string) (model.Prediction, error) {
	s.predictionsMu.RLock()
	defer s.predictionsMu.RUnlock()

	p, ok := s.predictions[id]
	if !ok {
		return model.Prediction{}, ErrNotFound
	}
	return p, nil
}

// AppendDiscrepancy persists one analyzed discrepancy.
func (s *MemStore) AppendDiscrepancy(_ context.Context, d model.Discrepancy) error {
	s.discrepanciesMu.Lock()
	defer s.discrepanciesMu.Unlock()
	s.discrepancies[d.EvaluatorID] = append(s.discrepancies[d.EvaluatorID], d)
	return nil
}

// DiscrepanciesByEvaluator returns an evaluator's discrepancies newest
// first, bounded by limit.
func (s *MemStore) DiscrepanciesByEvaluator(_ context.Context, evaluatorID string, limit int) []model.Discrepancy {
	s.discrepanciesMu.RLock()
	defer s.discrepanciesMu.RUnlock()

	all := s.discrepancies[evaluatorID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]model.Discrepancy, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out
}

// UpdateProfile runs fn on the evaluator's profile under the per-evaluator
// write boundary. Absent profiles are lazily created first.
func (s *MemStore) UpdateProfile(_ context.Context, evaluatorID string, fn func(p model.EvaluatorProfile) (model.EvaluatorProfile, error)) (model.EvaluatorProfile, error) {
	shard := s.shardFor(evaluatorID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	p, ok := shard.profiles[evaluatorID]
	if !ok {
		p = s.newProfile(evaluatorID)
	}

	updated, err := fn(p)
	if err != nil {
		return model.EvaluatorProfile{}, err
	}
	shard.profiles[evaluatorID] = updated
	return updated, nil
}

// GetProfile returns the evaluator's profile.
func (s *MemStore) GetProfile(_ context.Context, evaluatorID string) (model.EvaluatorProfile, error) {
	shard := s.shardFor(evaluatorID)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	p, ok := shard.profiles[evaluatorID]
	if !ok {
		return model.EvaluatorProfile{}, ErrNotFound
	}
	return p, nil
}

// ProfileCount returns the number of tracked evaluators.
func (s *MemStore) ProfileCount(_ context.Context) int {
	total := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		total += len(shard.profiles)
		shard.mu.RUnlock()
	}
	return total
}

func (s *MemStore) shardFor(evaluatorID string) *profileShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(evaluatorID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}
