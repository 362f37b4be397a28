package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// InsertVoter inserts a voter row. A voter whose epic_number already exists
// fails with ErrDuplicateEPIC; the unique constraint lives in the database,
// not in application logic, so concurrent writers cannot race past it.
func (s *Store) InsertVoter(ctx context.Context, v Voter) (int64, error) {
	query := `INSERT INTO voters
		(epic_number, name, relation_type, relation_name, house_number, age, gender, polling_station_id, raw_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if s.driver == "postgres" {
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"),
			v.EPICNumber, v.Name, v.RelationType, v.RelationName, v.HouseNumber,
			v.Age, v.Gender, v.PollingStationID, v.RawText,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, fmt.Errorf("%w: %s", ErrDuplicateEPIC, v.EPICNumber)
			}
			return 0, fmt.Errorf("failed to insert voter: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query,
		v.EPICNumber, v.Name, v.RelationType, v.RelationName, v.HouseNumber,
		v.Age, v.Gender, v.PollingStationID, v.RawText)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateEPIC, v.EPICNumber)
		}
		return 0, fmt.Errorf("failed to insert voter: %w", err)
	}
	return res.LastInsertId()
}

// GetVoterByEPIC returns the voter for an EPIC number.
// Returns sql.ErrNoRows (wrapped) when absent.
func (s *Store) GetVoterByEPIC(ctx context.Context, epic string) (Voter, error) {
	var v Voter
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, epic_number, name, relation_type, relation_name, house_number,
		        age, gender, polling_station_id, raw_text
		 FROM voters WHERE epic_number = ?`), epic,
	).Scan(&v.ID, &v.EPICNumber, &v.Name, &v.RelationType, &v.RelationName,
		&v.HouseNumber, &v.Age, &v.Gender, &v.PollingStationID, &v.RawText)
	if err != nil {
		return Voter{}, err
	}
	return v, nil
}

// CountVoters returns the number of persisted voters.
func (s *Store) CountVoters(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return n, nil
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either driver. Postgres reports SQLSTATE 23505; the pure-Go SQLite driver
// only exposes the constraint failure through the error text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
