// Package dedupe guards against reprocessing an evaluation for a prediction.
package dedupe

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxSize bounds the number of tracked ids. Zero or negative disables
// eviction.
func WithMaxSize(n int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = n
	}
}
