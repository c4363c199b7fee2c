// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/avelier/trustline/internal/domain/dedupe"
	"github.com/avelier/trustline/internal/domain/model"
)

// EvaluationDependencies defines the interface for evaluation ingestion.
type EvaluationDependencies interface {
	dedupe.Guard
	Enqueue(ctx context.Context, e model.Evaluation) bool
}

// EvaluationsHandler handles evaluation submissions.
type EvaluationsHandler struct {
	deps EvaluationDependencies
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps EvaluationDependencies) *EvaluationsHandler {
	return &EvaluationsHandler{deps: deps}
}

// HandlePostEvaluation handles POST /evaluations requests.
func (h *EvaluationsHandler) HandlePostEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_evaluation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check keyed by prediction id - mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.PredictionID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	ts := time.Now()
	if req.TS != "" {
		ts, _ = time.Parse(time.RFC3339, req.TS)
	}

	// Try to enqueue for async processing.
	ok := h.deps.Enqueue(r.Context(), model.Evaluation{
		PredictionID: req.PredictionID,
		EvaluatorID:  req.EvaluatorID,
		TargetID:     req.TargetID,
		ActualScore:  req.ActualScore,
		ActualGrade:  model.Grade(req.ActualGrade),
		TS:           ts,
	})
	if !ok {
		// Rollback the "seen" status since enqueue failed.
		h.deps.Unrecord(r.Context(), req.PredictionID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
