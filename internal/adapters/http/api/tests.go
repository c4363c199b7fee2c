// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avelier/trustline/internal/domain/model"
)

// TestDependencies defines the interface for test ingestion dependencies.
type TestDependencies interface {
	RecordTest(ctx context.Context, rec model.TestRecord) (model.TrustScore, error)
}

// TestsHandler handles test observation requests.
type TestsHandler struct {
	deps TestDependencies
}

// NewTestsHandler creates a new tests handler.
func NewTestsHandler(deps TestDependencies) *TestsHandler {
	return &TestsHandler{deps: deps}
}

// HandlePostTest handles POST /tests requests. The recomputed trust score
// is returned synchronously so probes can act on grade transitions.
func (h *TestsHandler) HandlePostTest(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_test"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	score, err := h.deps.RecordTest(r.Context(), req.toRecord())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, score)
}
