package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mreyes/legisync/internal/model"
)

// VoteStore handles database operations for roll calls and member votes.
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore creates a new VoteStore.
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

// Replace rewrites the full vote record set for one bill in one
// transaction: member votes are deleted first (they reference roll calls),
// then roll calls, then the fresh set is inserted.
func (s *VoteStore) Replace(ctx context.Context, billID int, rollCalls []model.RollCall, votes []model.Vote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteVotes := `
		DELETE FROM votes
		WHERE roll_call_id IN (SELECT roll_call_id FROM roll_calls WHERE bill_id = $1)
	`
	if _, err := tx.ExecContext(ctx, deleteVotes, billID); err != nil {
		return fmt.Errorf("failed to clear votes for bill %d: %w", billID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM roll_calls WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("failed to clear roll calls for bill %d: %w", billID, err)
	}

	insertRollCall := `
		INSERT INTO roll_calls (roll_call_id, bill_id, date, chamber, description,
		                        yea, nay, absent, nv, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, rc := range rollCalls {
		_, err := tx.ExecContext(ctx, insertRollCall,
			rc.RollCallID, rc.BillID, rc.Date, rc.Chamber, rc.Desc,
			rc.Yea, rc.Nay, rc.Absent, rc.NV, rc.Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert roll call %d for bill %d: %w", rc.RollCallID, billID, err)
		}
	}

	insertVote := `
		INSERT INTO votes (roll_call_id, people_id, vote, vote_desc)
		VALUES ($1, $2, $3, $4)
	`
	for _, v := range votes {
		if _, err := tx.ExecContext(ctx, insertVote, v.RollCallID, v.PeopleID, v.VoteCode, v.VoteDesc); err != nil {
			return fmt.Errorf("failed to insert vote for person %d on roll call %d: %w", v.PeopleID, v.RollCallID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit votes for bill %d: %w", billID, err)
	}

	return nil
}
