package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mreyes/legisync/internal/model"
)

// HistoryStore handles database operations for bill history entries.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Replace deletes every history row for the bill and inserts the given set
// in one transaction. Callers skip the call entirely for an empty upstream
// action list; an empty entries slice here really does clear history.
func (s *HistoryStore) Replace(ctx context.Context, billID int, entries []model.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("failed to clear history for bill %d: %w", billID, err)
	}

	insert := `
		INSERT INTO history (bill_id, date, sequence, action, chamber)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, insert, e.BillID, e.Date, e.Sequence, e.Action, e.Chamber); err != nil {
			return fmt.Errorf("failed to insert history entry %d for bill %d: %w", e.Sequence, billID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history for bill %d: %w", billID, err)
	}

	return nil
}
