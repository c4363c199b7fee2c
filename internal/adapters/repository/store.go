// Package repository defines the scoring state stores and errors.
package repository

import (
	"context"

	"github.com/avelier/trustline/internal/domain/model"
)

// Entry represents one evaluator ranking row.
type Entry struct {
	Rank        int
	EvaluatorID string
	TrustScore  float64
}

// RecordStore holds the bounded per-endpoint test observation windows.
// Records are append-only; the window discards the oldest beyond capacity.
type RecordStore interface {
	// Append adds one observation to the endpoint's window.
	Append(ctx context.Context, rec model.TestRecord) error

	// Window returns up to the window size of most-recent records,
	// newest first. Unknown endpoints return an empty window.
	Window(ctx context.Context, endpointID string) []model.TestRecord
}

// ScoreCache holds the derived TrustScore snapshots. Entries are
// overwritable; a recompute on the same window is idempotent.
type ScoreCache interface {
	Put(ctx context.Context, score model.TrustScore)

	// Get returns the cached snapshot. Returns ErrNotFound for endpoints
	// that were never scored.
	Get(ctx context.Context, endpointID string) (model.TrustScore, error)

	// Count returns the number of endpoints with a cached score.
	Count(ctx context.Context) int
}

// PredictionStore holds registered predictions until they are evaluated.
type PredictionStore interface {
	// PutPrediction stores a prediction. Returns ErrConflict if the id exists.
	PutPrediction(ctx context.Context, p model.Prediction) error

	// GetPrediction returns a prediction by id. Returns ErrNotFound if unknown.
	GetPrediction(ctx context.Context, id string) (model.Prediction, error)
}

// DiscrepancyStore persists analyzed discrepancies for audit and analytics.
type DiscrepancyStore interface {
	AppendDiscrepancy(ctx context.Context, d model.Discrepancy) error

	// DiscrepanciesByEvaluator returns an evaluator's discrepancies,
	// newest first, bounded by limit.
	DiscrepanciesByEvaluator(ctx context.Context, evaluatorID string, limit int) []model.Discrepancy
}

// ProfileStore provides per-evaluator atomic read-modify-write access.
type ProfileStore interface {
	// UpdateProfile runs fn on the evaluator's current profile under the
	// per-evaluator write boundary and persists the result. Absent
	// profiles are lazily created before fn runs. Concurrent updates
	// for the same evaluator serialize; none are lost.
	UpdateProfile(ctx context.Context, evaluatorID string, fn func(p model.EvaluatorProfile) (model.EvaluatorProfile, error)) (model.EvaluatorProfile, error)

	// GetProfile returns the evaluator's profile. Returns ErrNotFound if
	// the evaluator has never been seen.
	GetProfile(ctx context.Context, evaluatorID string) (model.EvaluatorProfile, error)

	// ProfileCount returns the number of tracked evaluators.
	ProfileCount(ctx context.Context) int
}

// RankStore maintains the evaluator ranking by trust score.
type RankStore interface {
	// Set records the evaluator's current trust score, replacing any
	// previous value.
	Set(ctx context.Context, evaluatorID string, trustScore float64) error

	// Rank returns the current rank and score for an evaluator.
	// Returns ErrNotFound if the evaluator is unknown.
	Rank(ctx context.Context, evaluatorID string) (Entry, error)

	// TopN returns the best n entries ordered by trust score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked evaluators.
	Count(ctx context.Context) int
}

// Journal is the append-only reputation snapshot log. Rows are never
// edited or deleted.
type Journal interface {
	Append(ctx context.Context, snap model.ReputationSnapshot) error

	// History returns an evaluator's snapshots, newest first, bounded
	// by limit.
	History(ctx context.Context, evaluatorID string, limit int) ([]model.ReputationSnapshot, error)

	Close() error
}
