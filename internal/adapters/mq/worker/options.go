// Package worker defines workers that turn queued evaluations into
// discrepancies and reputation updates.
package worker

import "github.com/avelier/trustline/pkg/logger"

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName sets the worker's name, used for scoped logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}
