package repository

import (
	"context"
	"sync"

	"github.com/avelier/trustline/internal/domain/model"
)

// MemJournal is the in-memory append-only reputation snapshot log, used
// when no durable journal path is configured.
type MemJournal struct {
	mu   sync.RWMutex
	rows map[string][]model.ReputationSnapshot // per evaluator, oldest first
}

// NewMemJournal creates an empty in-memory journal.
func NewMemJournal() *MemJournal {
	return &MemJournal{rows: make(map[string][]model.ReputationSnapshot)}
}

// Append adds one snapshot row. Rows are never edited or deleted.
func (j *MemJournal) Append(_ context.Context, snap model.ReputationSnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rows[snap.EvaluatorID] = append(j.rows[snap.EvaluatorID], snap)
	return nil
}

// History returns an evaluator's snapshots newest first, bounded by limit.
func (j *MemJournal) History(_ context.Context, evaluatorID string, limit int) ([]model.ReputationSnapshot, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	all := j.rows[evaluatorID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]model.ReputationSnapshot, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Close is a no-op for the in-memory journal.
func (j *MemJournal) Close() error {
	return nil
}
