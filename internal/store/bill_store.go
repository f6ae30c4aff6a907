package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mreyes/legisync/internal/model"
)

// BillStore handles database operations for bills.
type BillStore struct {
	db *sql.DB
}

// NewBillStore creates a new BillStore.
func NewBillStore(db *sql.DB) *BillStore {
	return &BillStore{db: db}
}

// GetByNumber retrieves a bill by its natural key (bill_number, session_id).
// Returns nil when no row exists.
func (s *BillStore) GetByNumber(ctx context.Context, billNumber string, sessionID int) (*model.Bill, error) {
	query := `
		SELECT bill_id, bill_number, title, description, status, status_desc,
		       status_date, committee, last_action, last_action_date,
		       session_id, url, state_link, updated_at
		FROM bills
		WHERE bill_number = $1 AND session_id = $2
	`

	var b model.Bill
	err := s.db.QueryRowContext(ctx, query, billNumber, sessionID).Scan(
		&b.BillID,
		&b.BillNumber,
		&b.Title,
		&b.Description,
		&b.Status,
		&b.StatusDesc,
		&b.StatusDate,
		&b.Committee,
		&b.LastAction,
		&b.LastActionDate,
		&b.SessionID,
		&b.URL,
		&b.StateLink,
		&b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill %s-%d: %w", billNumber, sessionID, err)
	}

	return &b, nil
}

// Upsert inserts or replaces a bill keyed on bill_id.
func (s *BillStore) Upsert(ctx context.Context, b *model.Bill) error {
	query := `
		INSERT INTO bills (bill_id, bill_number, title, description, status,
		                   status_desc, status_date, committee, last_action,
		                   last_action_date, session_id, url, state_link, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (bill_id) DO UPDATE SET
			bill_number = EXCLUDED.bill_number,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			status_desc = EXCLUDED.status_desc,
			status_date = EXCLUDED.status_date,
			committee = EXCLUDED.committee,
			last_action = EXCLUDED.last_action,
			last_action_date = EXCLUDED.last_action_date,
			session_id = EXCLUDED.session_id,
			url = EXCLUDED.url,
			state_link = EXCLUDED.state_link,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		b.BillID,
		b.BillNumber,
		b.Title,
		b.Description,
		b.Status,
		b.StatusDesc,
		b.StatusDate,
		b.Committee,
		b.LastAction,
		b.LastActionDate,
		b.SessionID,
		b.URL,
		b.StateLink,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bill %s-%d: %w", b.BillNumber, b.SessionID, err)
	}

	return nil
}

// ListNumbers pages the stored bill numbers for a session in bill_id order.
func (s *BillStore) ListNumbers(ctx context.Context, sessionID, limit, offset int) ([]string, error) {
	query := `
		SELECT bill_number
		FROM bills
		WHERE session_id = $1
		ORDER BY bill_id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan bill number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill numbers: %w", err)
	}

	return numbers, nil
}
