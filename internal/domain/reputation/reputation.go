// Package reputation maintains evaluator reputation from discrepancy streams.
package reputation

import (
	"math"
	"time"

	"github.com/avelier/trustline/internal/domain/model"
	"github.com/google/uuid"
)

// Reputation score bounds and the initial score for a first-seen evaluator.
const (
	MinTrustScore     = 0.0
	MaxTrustScore     = 1000.0
	InitialTrustScore = 500.0

	// maxAbsoluteError normalizes errors into the accuracy rate.
	maxAbsoluteError = 100.0

	// consistencySpread is the error stddev at which consistency bottoms out.
	consistencySpread = 50.0
)

// Default trust-score deltas per accuracy category.
const (
	defaultExcellentDelta = 10.0
	defaultGoodDelta      = 5.0
	defaultFairDelta      = -5.0
	defaultPoorDelta      = -15.0
)

// Change reasons recorded on reputation snapshots, keyed by accuracy category.
var changeReasons = map[model.AccuracyCategory]string{
	model.AccuracyExcellent: "accurate_prediction",
	model.AccuracyGood:      "good_prediction",
	model.AccuracyFair:      "imprecise_prediction",
	model.AccuracyPoor:      "poor_prediction",
}

// Engine computes incremental reputation updates. The Apply method is pure:
// it returns the updated profile and the audit snapshot without touching
// shared state, so callers decide the atomicity boundary.
type Engine struct {
	deltas map[model.AccuracyCategory]float64
	now    func() time.Time
}

// NewEngine creates a reputation engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		deltas: map[model.AccuracyCategory]float64{
			model.AccuracyExcellent: defaultExcellentDelta,
			model.AccuracyGood:      defaultGoodDelta,
			model.AccuracyFair:      defaultFairDelta,
			model.AccuracyPoor:      defaultPoorDelta,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewProfile returns the lazily-initialized profile for a first-seen
// evaluator: neutral trust, all counters at zero.
func NewProfile(evaluatorID string, now time.Time) model.EvaluatorProfile {
	return model.EvaluatorProfile{
		EvaluatorID: evaluatorID,
		TrustScore:  InitialTrustScore,
		FirstSeenAt: now,
		UpdatedAt:   now,
	}
}

// Apply folds one discrepancy into a profile. Running averages are updated
// incrementally, never recomputed from history. The returned snapshot
// captures the post-update trust score and the applied delta.
//
// Callers must execute Apply inside a per-evaluator atomic read-modify-write;
// two concurrent applications on the same stale profile would silently drop
// one update.
func (e *Engine) Apply(p model.EvaluatorProfile, d model.Discrepancy) (model.EvaluatorProfile, model.ReputationSnapshot) {
	now := e.now()
	n := float64(p.TotalPredictions)
	oldMean := p.AvgAbsoluteError

	// Running mean of absolute error and grade accuracy.
	p.AvgAbsoluteError = (oldMean*n + d.AbsoluteError) / (n + 1)
	gradeHit := 0.0
	if d.GradeMatch {
		gradeHit = 1.0
	}
	p.GradeAccuracyRate = (p.GradeAccuracyRate*n + gradeHit) / (n + 1)

	// Welford update for the error variance backing the consistency score.
	p.ErrVarianceM2 += (d.AbsoluteError - oldMean) * (d.AbsoluteError - p.AvgAbsoluteError)

	// Calibration: gap between stated confidence and realized accuracy.
	realized := clamp01(1 - d.AbsoluteError/maxAbsoluteError)
	p.CalibrationErrSum += math.Abs(d.ConfidenceLevel - realized)

	p.TotalPredictions++
	p.TotalEvaluations++

	count := float64(p.TotalPredictions)
	p.PredictionAccuracyRate = clamp01(1 - p.AvgAbsoluteError/maxAbsoluteError)
	p.CalibrationScore = clamp01(1 - p.CalibrationErrSum/count)
	p.ConsistencyScore = clamp01(1 - math.Sqrt(p.ErrVarianceM2/count)/consistencySpread)

	delta := e.deltas[d.Category]
	p.TrustScore = clamp(p.TrustScore+delta, MinTrustScore, MaxTrustScore)
	p.UpdatedAt = now

	snap := model.ReputationSnapshot{
		ID:           uuid.NewString(),
		EvaluatorID:  p.EvaluatorID,
		Timestamp:    now,
		TrustScore:   p.TrustScore,
		ChangeReason: ChangeReason(d.Category),
		ScoreChange:  delta,
	}

	return p, snap
}

// Delta returns the configured trust-score delta for a category.
func (e *Engine) Delta(c model.AccuracyCategory) float64 {
	return e.deltas[c]
}

// ChangeReason returns the audit reason string for a category.
func ChangeReason(c model.AccuracyCategory) string {
	if r, ok := changeReasons[c]; ok {
		return r
	}
	return "reputation_update"
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}
