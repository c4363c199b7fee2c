// Package reputation maintains evaluator reputation from discrepancy streams.
package reputation

import (
	"time"

	"github.com/avelier/trustline/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDeltas overrides the per-category trust-score deltas. Categories
// missing from the map keep their defaults.
func WithDeltas(deltas map[model.AccuracyCategory]float64) Option {
	return func(e *Engine) {
		for c, d := range deltas {
			e.deltas[c] = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
