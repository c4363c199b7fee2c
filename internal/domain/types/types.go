// Package types contains common read shapes shared across the application.
package types

// Entry represents one evaluator leaderboard row.
type Entry struct {
	Rank        int     `json:"rank"`
	EvaluatorID string  `json:"evaluator_id"`
	TrustScore  float64 `json:"trust_score"`
}

// Stats is the service statistics read shape.
type Stats struct {
	Started         bool `json:"started"`
	WorkerCount     int  `json:"worker_count"`
	QueueLength     int  `json:"queue_length"`
	TotalEvaluators int  `json:"total_evaluators"`
	TotalEndpoints  int  `json:"total_endpoints"`
}
