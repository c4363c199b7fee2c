// Package trust computes endpoint trust scores from test observation windows.
package trust

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the sub-score weights. All four must be positive and are
// expected to sum to 1; invalid sets are ignored and defaults are kept.
func WithWeights(uptime, speed, accuracy, age float64) Option {
	return func(e *Engine) {
		if uptime <= 0 || speed <= 0 || accuracy <= 0 || age <= 0 {
			return
		}
		e.uptimeWeight = uptime
		e.speedWeight = speed
		e.accuracyWeight = accuracy
		e.ageWeight = age
	}
}

// WithWindowSize bounds the number of records considered per endpoint.
func WithWindowSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.windowSize = n
		}
	}
}
