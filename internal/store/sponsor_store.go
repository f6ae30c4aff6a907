package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mreyes/legisync/internal/model"
)

// SponsorStore handles database operations for bill sponsors.
type SponsorStore struct {
	db *sql.DB
}

// NewSponsorStore creates a new SponsorStore.
func NewSponsorStore(db *sql.DB) *SponsorStore {
	return &SponsorStore{db: db}
}

// Replace deletes every sponsor row for the bill and inserts the given set
// in one transaction.
func (s *SponsorStore) Replace(ctx context.Context, billID int, sponsors []model.Sponsor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sponsors WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("failed to clear sponsors for bill %d: %w", billID, err)
	}

	insert := `INSERT INTO sponsors (bill_id, people_id, position) VALUES ($1, $2, $3)`
	for _, sp := range sponsors {
		if _, err := tx.ExecContext(ctx, insert, sp.BillID, sp.PeopleID, sp.Position); err != nil {
			return fmt.Errorf("failed to insert sponsor %d for bill %d: %w", sp.PeopleID, billID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sponsors for bill %d: %w", billID, err)
	}

	return nil
}
