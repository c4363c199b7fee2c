// Package discrepancy compares stored predictions against realized outcomes.
package discrepancy

import (
	"math"
	"time"

	"github.com/avelier/trustline/internal/domain/model"
	"github.com/google/uuid"
)

// Accuracy band upper bounds on absolute error. Lower bound inclusive,
// upper bound exclusive.
const (
	excellentBound = 5.0
	goodBound      = 10.0
	fairBound      = 20.0
)

// Analyzer produces a Discrepancy from a prediction and its realized outcome.
type Analyzer interface {
	Analyze(p model.Prediction, e model.Evaluation) model.Discrepancy
}

// ErrorAnalyzer implements Analyzer with the fixed reference bands.
// It is stateless and safe for concurrent use.
type ErrorAnalyzer struct {
	now func() time.Time
}

// NewAnalyzer creates a new discrepancy analyzer.
func NewAnalyzer() *ErrorAnalyzer {
	return &ErrorAnalyzer{now: time.Now}
}

// Analyze links one prediction to the evaluation that materialized for it.
// Pure computation; the caller owns persistence of the returned record.
func (a *ErrorAnalyzer) Analyze(p model.Prediction, e model.Evaluation) model.Discrepancy {
	diff := e.ActualScore - p.PredictedScore
	absErr := math.Abs(diff)

	return model.Discrepancy{
		ID:              uuid.NewString(),
		PredictionID:    p.ID,
		EvaluationID:    e.ID,
		EvaluatorID:     p.EvaluatorID,
		TargetID:        p.TargetID,
		PredictedScore:  p.PredictedScore,
		ActualScore:     e.ActualScore,
		ScoreDifference: diff,
		AbsoluteError:   absErr,
		GradeMatch:      p.PredictedGrade == e.ActualGrade,
		Category:        Categorize(absErr),
		Overestimated:   p.PredictedScore > e.ActualScore,
		ConfidenceLevel: p.ConfidenceLevel,
		CreatedAt:       a.now(),
	}
}

// Categorize bands an absolute error into an accuracy category.
func Categorize(absErr float64) model.AccuracyCategory {
	switch {
	case absErr < excellentBound:
		return model.AccuracyExcellent
	case absErr < goodBound:
		return model.AccuracyGood
	case absErr < fairBound:
		return model.AccuracyFair
	default:
		return model.AccuracyPoor
	}
}
