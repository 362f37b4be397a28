package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertStation inserts the station if its (part_no, section_no) pair is new
// and returns the row id. If the pair already exists the stored row wins:
// the existing id is returned, fields are left untouched, and any differing
// incoming fields are logged as a conflict warning.
func (s *Store) UpsertStation(ctx context.Context, st Station) (int64, error) {
	if st.PartNo == "" || st.SectionNo == "" {
		return 0, ErrMissingStationKey
	}

	existing, err := s.GetStationByKey(ctx, st.PartNo, st.SectionNo)
	if err == nil {
		s.warnOnFieldMismatch(existing, st)
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up station: %w", err)
	}

	id, err := s.insertStation(ctx, st)
	if err != nil {
		// A concurrent writer may have inserted the same key between our
		// lookup and insert. Re-read and treat it as the winning row.
		if isUniqueViolation(err) {
			existing, lookupErr := s.GetStationByKey(ctx, st.PartNo, st.SectionNo)
			if lookupErr != nil {
				return 0, fmt.Errorf("failed to re-read station after conflict: %w", lookupErr)
			}
			s.warnOnFieldMismatch(existing, st)
			return existing.ID, nil
		}
		return 0, fmt.Errorf("failed to insert station: %w", err)
	}
	return id, nil
}

func (s *Store) insertStation(ctx context.Context, st Station) (int64, error) {
	query := `INSERT INTO polling_stations
		(booth_no, part_no, section_no, location_name, assembly_constituency)
		VALUES (?, ?, ?, ?, ?)`

	if s.driver == "postgres" {
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"),
			st.BoothNo, st.PartNo, st.SectionNo, st.LocationName, st.AssemblyConstituency,
		).Scan(&id)
		return id, err
	}

	res, err := s.db.ExecContext(ctx, query,
		st.BoothNo, st.PartNo, st.SectionNo, st.LocationName, st.AssemblyConstituency)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetStationByKey returns the station for a (part_no, section_no) pair.
// Returns sql.ErrNoRows (wrapped) when absent.
func (s *Store) GetStationByKey(ctx context.Context, partNo, sectionNo string) (Station, error) {
	var st Station
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, booth_no, part_no, section_no, location_name, assembly_constituency
		 FROM polling_stations WHERE part_no = ? AND section_no = ?`),
		partNo, sectionNo,
	).Scan(&st.ID, &st.BoothNo, &st.PartNo, &st.SectionNo, &st.LocationName, &st.AssemblyConstituency)
	if err != nil {
		return Station{}, err
	}
	return st, nil
}

// GetStation returns a station by row id.
func (s *Store) GetStation(ctx context.Context, id int64) (Station, error) {
	var st Station
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, booth_no, part_no, section_no, location_name, assembly_constituency
		 FROM polling_stations WHERE id = ?`), id,
	).Scan(&st.ID, &st.BoothNo, &st.PartNo, &st.SectionNo, &st.LocationName, &st.AssemblyConstituency)
	if err != nil {
		return Station{}, err
	}
	return st, nil
}

// warnOnFieldMismatch logs when a re-encountered header disagrees with the
// stored station. First write wins; the incoming values are never applied.
func (s *Store) warnOnFieldMismatch(stored, incoming Station) {
	type diff struct{ field, stored, incoming string }
	var diffs []diff
	if incoming.BoothNo != "" && incoming.BoothNo != stored.BoothNo {
		diffs = append(diffs, diff{"booth_no", stored.BoothNo, incoming.BoothNo})
	}
	if incoming.LocationName != "" && incoming.LocationName != stored.LocationName {
		diffs = append(diffs, diff{"location_name", stored.LocationName, incoming.LocationName})
	}
	if incoming.AssemblyConstituency != "" && incoming.AssemblyConstituency != stored.AssemblyConstituency {
		diffs = append(diffs, diff{"assembly_constituency", stored.AssemblyConstituency, incoming.AssemblyConstituency})
	}
	for _, d := range diffs {
		s.logger.Warn("station field conflict, keeping stored value",
			"part_no", stored.PartNo,
			"section_no", stored.SectionNo,
			"field", d.field,
			"stored", d.stored,
			"incoming", d.incoming,
		)
	}
}
