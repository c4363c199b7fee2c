// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/avelier/trustline/internal/domain/model"
)

const defaultHistoryLimit = 50

// EvaluatorDependencies defines the interface for evaluator reads.
type EvaluatorDependencies interface {
	Evaluator(ctx context.Context, evaluatorID string) (model.EvaluatorProfile, error)
	History(ctx context.Context, evaluatorID string, limit int) ([]model.ReputationSnapshot, error)
	Rank(ctx context.Context, evaluatorID string) (Entry, error)
}

// EvaluatorsHandler handles evaluator profile and history requests.
type EvaluatorsHandler struct {
	deps EvaluatorDependencies
}

// NewEvaluatorsHandler creates a new evaluators handler.
func NewEvaluatorsHandler(deps EvaluatorDependencies) *EvaluatorsHandler {
	return &EvaluatorsHandler{deps: deps}
}

// evaluatorResponse joins the profile with its current leaderboard rank.
type evaluatorResponse struct {
	model.EvaluatorProfile
	Rank int `json:"rank,omitempty"`
}

// HandleGetEvaluator handles GET /evaluators/{id} and
// GET /evaluators/{id}/history requests.
func (h *EvaluatorsHandler) HandleGetEvaluator(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /evaluators/
	path := strings.TrimPrefix(r.URL.Path, "/evaluators/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id, rest, hasSub := strings.Cut(path, "/")
	if id == "" || (hasSub && rest != "history") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if hasSub {
		h.handleHistory(w, r, id)
		return
	}

	profile, err := h.deps.Evaluator(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	resp := evaluatorResponse{EvaluatorProfile: profile}
	if entry, rerr := h.deps.Rank(r.Context(), id); rerr == nil {
		resp.Rank = entry.Rank
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EvaluatorsHandler) handleHistory(w http.ResponseWriter, r *http.Request, id string) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}
	history, err := h.deps.History(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if history == nil {
		history = []model.ReputationSnapshot{}
	}
	writeJSON(w, http.StatusOK, history)
}
