// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"github.com/avelier/trustline/internal/domain/model"
	"github.com/avelier/trustline/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of reputation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the evaluation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the prediction idempotency guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithWindowSize bounds the per-endpoint test record windows.
func WithWindowSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.windowSize = size
		}
	}
}

// WithShardCount sets the number of profile shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithJournalPath enables the durable sqlite reputation journal.
func WithJournalPath(path string) Option {
	return func(s *Service) {
		s.journalPath = path
	}
}

// WithScoreWeights sets the uptime/speed/accuracy/age sub-score weights.
func WithScoreWeights(uptime, speed, accuracy, age float64) Option {
	return func(s *Service) {
		if uptime > 0 && speed > 0 && accuracy > 0 && age > 0 {
			s.weights = [4]float64{uptime, speed, accuracy, age}
		}
	}
}

// WithReputationDeltas overrides the per-category trust-score deltas.
func WithReputationDeltas(deltas map[model.AccuracyCategory]float64) Option {
	return func(s *Service) {
		if len(deltas) > 0 {
			s.deltas = deltas
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
