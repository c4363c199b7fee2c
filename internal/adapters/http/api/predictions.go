// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelier/trustline/internal/adapters/repository"
	"github.com/avelier/trustline/internal/domain/model"
)

// PredictionDependencies defines the interface for prediction registration.
type PredictionDependencies interface {
	RegisterPrediction(ctx context.Context, p model.Prediction) (model.Prediction, error)
}

// PredictionsHandler handles prediction registration requests.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandlePostPrediction handles POST /predictions requests.
func (h *PredictionsHandler) HandlePostPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_prediction"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.RegisterPrediction(r.Context(), model.Prediction{
		ID:              req.ID,
		EvaluatorID:     req.EvaluatorID,
		TargetID:        req.TargetID,
		PredictedScore:  req.PredictedScore,
		PredictedGrade:  model.Grade(req.PredictedGrade),
		ConfidenceLevel: req.ConfidenceLevel,
		Basis:           req.Basis,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, http.StatusConflict, "conflict", NewKind(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
