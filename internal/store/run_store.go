package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mreyes/legisync/internal/sync"
)

// RunStore persists finished sync-run reports for monitoring history.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// RunRecord is one persisted sync-run report.
type RunRecord struct {
	ID           int       `json:"id"`
	RunID        string    `json:"runId"`
	Action       string    `json:"action"`
	Session      int       `json:"session,omitempty"`
	Processed    int       `json:"processed"`
	Inserted     int       `json:"inserted"`
	Updated      int       `json:"updated"`
	Errored      int       `json:"errored"`
	DurationMS   int64     `json:"durationMs"`
	Message      string    `json:"message,omitempty"`
	ErrorDetails []string  `json:"errorDetails,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
}

// Record inserts one run report.
func (s *RunStore) Record(ctx context.Context, report *sync.Report) error {
	query := `
		INSERT INTO sync_runs (run_id, action, session, processed, inserted,
		                       updated, errored, duration_ms, message,
		                       error_details, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		report.RunID,
		report.Action,
		report.Session,
		report.Processed,
		report.Inserted,
		report.Updated,
		report.Errored,
		report.DurationMS,
		report.Message,
		pq.Array(report.ErrorDetails),
		report.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run %s: %w", report.RunID, err)
	}

	return nil
}

// Recent returns the most recent run reports, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, run_id, action, session, processed, inserted, updated,
		       errored, duration_ms, message, error_details, started_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.Action,
			&r.Session,
			&r.Processed,
			&r.Inserted,
			&r.Updated,
			&r.Errored,
			&r.DurationMS,
			&r.Message,
			pq.Array(&r.ErrorDetails),
			&r.StartedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync runs: %w", err)
	}

	return records, nil
}
