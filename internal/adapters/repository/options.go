package repository

import "github.com/avelier/trustline/internal/domain/model"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithWindowSize bounds the per-endpoint test record windows.
func WithWindowSize(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.windowSize = n
		}
	}
}

// WithShardCount sets the number of profile shards. More shards reduce
// contention between updates for different evaluators.
func WithShardCount(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithProfileFactory sets the lazy-initialization function used when an
// evaluator is first seen.
func WithProfileFactory(fn func(evaluatorID string) model.EvaluatorProfile) Option {
	return func(s *MemStore) {
		if fn != nil {
			s.newProfile = fn
		}
	}
}
