package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avelier/trustline/internal/domain/model"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const journalDDL = `
CREATE TABLE IF NOT EXISTS reputation_snapshots (
	id            TEXT PRIMARY KEY,
	evaluator_id  TEXT NOT NULL,
	ts            TEXT NOT NULL,
	trust_score   REAL NOT NULL,
	change_reason TEXT NOT NULL,
	score_change  REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_evaluator
	ON reputation_snapshots (evaluator_id, ts DESC);
`

// SQLiteJournal is the durable append-only reputation snapshot log.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the journal database at path and
// ensures the schema exists.
func NewSQLiteJournal(ctx context.Context, path string) (*SQLiteJournal, error) {
	if path == "" {
		return nil, fmt.Errorf("open journal: %w", ErrNotFound)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, journalDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Append inserts one snapshot row. Rows are never edited or deleted.
func (j *SQLiteJournal) Append(ctx context.Context, snap model.ReputationSnapshot) error {
	const q = `INSERT INTO reputation_snapshots
		(id, evaluator_id, ts, trust_score, change_reason, score_change)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := j.db.ExecContext(ctx, q,
		snap.ID,
		snap.EvaluatorID,
		snap.Timestamp.UTC().Format(time.RFC3339Nano),
		snap.TrustScore,
		snap.ChangeReason,
		snap.ScoreChange,
	)
	if err != nil {
		return fmt.Errorf("append snapshot for %s: %w", snap.EvaluatorID, err)
	}
	return nil
}

// History returns an evaluator's snapshots newest first, bounded by limit.
func (j *SQLiteJournal) History(ctx context.Context, evaluatorID string, limit int) ([]model.ReputationSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT id, evaluator_id, ts, trust_score, change_reason, score_change
		FROM reputation_snapshots
		WHERE evaluator_id = ?
		ORDER BY ts DESC
		LIMIT ?`
	rows, err := j.db.QueryContext(ctx, q, evaluatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", evaluatorID, err)
	}
	defer rows.Close()

	var out []model.ReputationSnapshot
	for rows.Next() {
		var snap model.ReputationSnapshot
		var ts string
		if err := rows.Scan(&snap.ID, &snap.EvaluatorID, &ts, &snap.TrustScore, &snap.ChangeReason, &snap.ScoreChange); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			snap.Timestamp = parsed
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history for %s: %w", evaluatorID, err)
	}
	return out, nil
}

// Close releases the underlying database handle.
func (j *SQLiteJournal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}
