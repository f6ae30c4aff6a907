package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mreyes/legisync/internal/model"
)

// PersonStore reads the people table. The sync pipeline never writes it.
type PersonStore struct {
	db *sql.DB
}

// NewPersonStore creates a new PersonStore.
func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

// GetAll loads every person. The matcher snapshots this once per run.
func (s *PersonStore) GetAll(ctx context.Context) ([]model.Person, error) {
	query := `
		SELECT people_id, name, first_name, last_name, district
		FROM people
		ORDER BY people_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.PeopleID, &p.Name, &p.FirstName, &p.LastName, &p.District); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}
