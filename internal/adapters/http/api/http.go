// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/avelier/trustline/internal/adapters/repository"
	"github.com/avelier/trustline/internal/domain/dedupe"
	"github.com/avelier/trustline/internal/domain/model"
	"github.com/avelier/trustline/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Guard

	// RecordTest ingests a probe observation and returns the recomputed
	// trust score for the endpoint.
	RecordTest(ctx context.Context, rec model.TestRecord) (model.TrustScore, error)

	// Score returns the cached trust score for an endpoint.
	Score(ctx context.Context, endpointID string) (model.TrustScore, error)

	// RegisterPrediction stores an immutable forecast.
	RegisterPrediction(ctx context.Context, p model.Prediction) (model.Prediction, error)

	// Enqueue pushes an evaluation for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, e model.Evaluation) bool

	// Read operations expose evaluator reputation data.
	Evaluator(ctx context.Context, evaluatorID string) (model.EvaluatorProfile, error)
	History(ctx context.Context, evaluatorID string, limit int) ([]model.ReputationSnapshot, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, evaluatorID string) (Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	testsHandler       *TestsHandler
	scoresHandler      *ScoresHandler
	predictionsHandler *PredictionsHandler
	evaluationsHandler *EvaluationsHandler
	evaluatorsHandler  *EvaluatorsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		testsHandler:       NewTestsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		evaluationsHandler: NewEvaluationsHandler(deps),
		evaluatorsHandler:  NewEvaluatorsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/tests", MetricsMiddleware(s.testsHandler.HandlePostTest, "tests"))
	mux.HandleFunc("/scores/", MetricsMiddleware(s.scoresHandler.HandleGetScore, "scores"))
	mux.HandleFunc("/predictions", MetricsMiddleware(s.predictionsHandler.HandlePostPrediction, "predictions"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationsHandler.HandlePostEvaluation, "evaluations"))
	mux.HandleFunc("/evaluators/", MetricsMiddleware(s.evaluatorsHandler.HandleGetEvaluator, "evaluators"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

// testRequest mirrors the wire schema for POST /tests.
type testRequest struct {
	EndpointID string  `json:"endpoint_id"`
	TS         string  `json:"ts"`
	Success    bool    `json:"success"`
	LatencyMS  float64 `json:"latency_ms"`
	StatusCode int     `json:"status_code"`
	Sample     string  `json:"sample,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (t testRequest) validate() error {
	if strings.TrimSpace(t.EndpointID) == "" {
		return errors.New("missing endpoint_id")
	}
	if t.TS != "" {
		if _, err := time.Parse(time.RFC3339, t.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

func (t testRequest) toRecord() model.TestRecord {
	ts := time.Now()
	if t.TS != "" {
		ts, _ = time.Parse(time.RFC3339, t.TS)
	}
	return model.TestRecord{
		EndpointID: t.EndpointID,
		Timestamp:  ts,
		Success:    t.Success,
		LatencyMS:  t.LatencyMS,
		StatusCode: t.StatusCode,
		Sample:     t.Sample,
		Error:      t.Error,
	}
}

// predictionRequest mirrors the wire schema for POST /predictions.
type predictionRequest struct {
	ID              string  `json:"id"`
	EvaluatorID     string  `json:"evaluator_id"`
	TargetID        string  `json:"target_id"`
	PredictedScore  float64 `json:"predicted_score"`
	PredictedGrade  string  `json:"predicted_grade"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Basis           string  `json:"basis,omitempty"`
}

func (p predictionRequest) validate() error {
	switch {
	case strings.TrimSpace(p.EvaluatorID) == "":
		return errors.New("missing evaluator_id")
	case strings.TrimSpace(p.TargetID) == "":
		return errors.New("missing target_id")
	case p.PredictedScore < 0 || p.PredictedScore > 100:
		return errors.New("predicted_score must be within [0,100]")
	case p.ConfidenceLevel < 0 || p.ConfidenceLevel > 1:
		return errors.New("confidence_level must be within [0,1]")
	}
	return nil
}

// evaluationRequest mirrors the wire schema for POST /evaluations.
type evaluationRequest struct {
	PredictionID string  `json:"prediction_id"`
	EvaluatorID  string  `json:"evaluator_id"`
	TargetID     string  `json:"target_id"`
	ActualScore  float64 `json:"actual_score"`
	ActualGrade  string  `json:"actual_grade"`
	TS           string  `json:"ts"`
}

func (e evaluationRequest) validate() error {
	switch {
	case strings.TrimSpace(e.PredictionID) == "":
		return errors.New("missing prediction_id")
	case strings.TrimSpace(e.EvaluatorID) == "":
		return errors.New("missing evaluator_id")
	case e.ActualScore < 0 || e.ActualScore > 100:
		return errors.New("actual_score must be within [0,100]")
	}
	if e.TS != "" {
		if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
