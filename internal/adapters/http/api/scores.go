// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelier/trustline/internal/domain/model"
)

// ScoreDependencies defines the interface for score lookups.
type ScoreDependencies interface {
	Score(ctx context.Context, endpointID string) (model.TrustScore, error)
}

// ScoresHandler handles trust score lookups.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleGetScore handles GET /scores/{endpoint_id} requests.
func (h *ScoresHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /scores/
	path := strings.TrimPrefix(r.URL.Path, "/scores/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	score, err := h.deps.Score(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}
