// Package model contains domain entities passed between layers.
package model

import "time"

// Grade is a letter grade derived from a 0-100 score.
type Grade string

// Letter grades, best to worst.
const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeCPlus  Grade = "C+"
	GradeC      Grade = "C"
	GradeCMinus Grade = "C-"
	GradeD      Grade = "D"
	GradeF      Grade = "F"
)

// Recommendation is the usage guidance derived from an overall trust score.
type Recommendation string

// Usage recommendations.
const (
	RecommendTrusted Recommendation = "TRUSTED"
	RecommendCaution Recommendation = "CAUTION"
	RecommendAvoid   Recommendation = "AVOID"
)

// AccuracyCategory bands an absolute prediction error.
type AccuracyCategory string

// Accuracy bands on absolute error, half-open, lower bound inclusive.
const (
	AccuracyExcellent AccuracyCategory = "excellent" // [0, 5)
	AccuracyGood      AccuracyCategory = "good"      // [5, 10)
	AccuracyFair      AccuracyCategory = "fair"      // [10, 20)
	AccuracyPoor      AccuracyCategory = "poor"      // [20, inf)
)

// Endpoint describes a monitored service endpoint. Owned by the discovery
// subsystem; read-only to the scoring core.
type Endpoint struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

// TestRecord is one immutable probe observation for an endpoint.
// Past records are never mutated; scoring reads a bounded window of them.
type TestRecord struct {
	EndpointID string    `json:"endpoint_id"`
	Timestamp  time.Time `json:"timestamp"`
	Success    bool      `json:"success"`
	LatencyMS  float64   `json:"latency_ms"` // <= 0 means latency was not observed
	StatusCode int       `json:"status_code"`
	Sample     string    `json:"sample,omitempty"` // response body sample, if captured
	Error      string    `json:"error,omitempty"`
}

// TrustScore is the derived per-endpoint snapshot. It is a cache over the
// TestRecord window and can always be rebuilt deterministically.
type TrustScore struct {
	EndpointID        string         `json:"endpoint_id"`
	UptimeScore       float64        `json:"uptime_score"`
	SpeedScore        float64        `json:"speed_score"`
	AccuracyScore     float64        `json:"accuracy_score"`
	AgeScore          float64        `json:"age_score"`
	OverallScore      float64        `json:"overall_score"`
	Grade             Grade          `json:"grade"`
	Recommendation    Recommendation `json:"recommendation"`
	TotalTests        int            `json:"total_tests"`
	SuccessfulTests   int            `json:"successful_tests"`
	FailedTests       int            `json:"failed_tests"`
	AvgResponseTimeMS float64        `json:"avg_response_time_ms"`
	FirstTestedAt     time.Time      `json:"first_tested_at"`
	LastCalculatedAt  time.Time      `json:"last_calculated_at"`
}

// Prediction is an immutable forecast made before the actual outcome is known.
type Prediction struct {
	ID              string    `json:"id"`
	EvaluatorID     string    `json:"evaluator_id"`
	TargetID        string    `json:"target_id"`
	PredictedScore  float64   `json:"predicted_score"`
	PredictedGrade  Grade     `json:"predicted_grade"`
	ConfidenceLevel float64   `json:"confidence_level"` // [0,1]
	Basis           string    `json:"basis,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Evaluation is the realized outcome submitted for a prior prediction.
type Evaluation struct {
	ID           string    `json:"id"`
	PredictionID string    `json:"prediction_id"`
	EvaluatorID  string    `json:"evaluator_id"`
	TargetID     string    `json:"target_id"`
	ActualScore  float64   `json:"actual_score"`
	ActualGrade  Grade     `json:"actual_grade"`
	TS           time.Time `json:"ts"`
}

// Discrepancy links one Prediction to the Evaluation that later materialized.
type Discrepancy struct {
	ID              string           `json:"id"`
	PredictionID    string           `json:"prediction_id"`
	EvaluationID    string           `json:"evaluation_id"`
	EvaluatorID     string           `json:"evaluator_id"`
	TargetID        string           `json:"target_id"`
	PredictedScore  float64          `json:"predicted_score"`
	ActualScore     float64          `json:"actual_score"`
	ScoreDifference float64          `json:"score_difference"` // actual - predicted
	AbsoluteError   float64          `json:"absolute_error"`
	GradeMatch      bool             `json:"grade_match"`
	Category        AccuracyCategory `json:"accuracy_category"`
	Overestimated   bool             `json:"overestimated"`
	ConfidenceLevel float64          `json:"confidence_level"`
	CreatedAt       time.Time        `json:"created_at"`
}

// EvaluatorProfile is the mutable per-evaluator aggregate. Counters are
// updated incrementally; the profile is never recomputed from full history.
type EvaluatorProfile struct {
	EvaluatorID            string    `json:"evaluator_id"`
	TrustScore             float64   `json:"trust_score"` // [0,1000]
	PredictionAccuracyRate float64   `json:"prediction_accuracy_rate"`
	CalibrationScore       float64   `json:"calibration_score"`
	ConsistencyScore       float64   `json:"consistency_score"`
	TotalEvaluations       int       `json:"total_evaluations"`
	TotalPredictions       int       `json:"total_predictions"`
	AvgAbsoluteError       float64   `json:"avg_absolute_error"`
	GradeAccuracyRate      float64   `json:"grade_accuracy_rate"`
	FirstSeenAt            time.Time `json:"first_seen_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	// Welford accumulator for the consistency score. Internal, not part of
	// the serialized contract.
	ErrVarianceM2 float64 `json:"-"`
	// Running mean of |confidence - realized accuracy| for calibration.
	CalibrationErrSum float64 `json:"-"`
}

// ReputationSnapshot is an immutable audit row appended after every
// reputation change. Never edited or deleted.
type ReputationSnapshot struct {
	ID           string    `json:"id"`
	EvaluatorID  string    `json:"evaluator_id"`
	Timestamp    time.Time `json:"timestamp"`
	TrustScore   float64   `json:"trust_score"` // post-update value
	ChangeReason string    `json:"change_reason"`
	ScoreChange  float64   `json:"score_change"`
}
