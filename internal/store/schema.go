package store

import (
	"context"
	"fmt"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS polling_stations (
    id SERIAL PRIMARY KEY,
    booth_no VARCHAR(50),
    part_no VARCHAR(50) NOT NULL,
    section_no VARCHAR(50) NOT NULL,
    location_name TEXT,
    assembly_constituency TEXT,
    UNIQUE(part_no, section_no)
);

CREATE TABLE IF NOT EXISTS voters (
    id SERIAL PRIMARY KEY,
    epic_number VARCHAR(50) NOT NULL UNIQUE,
    name TEXT,
    relation_type VARCHAR(20),
    relation_name TEXT,
    house_number TEXT,
    age INTEGER,
    gender VARCHAR(20),
    polling_station_id INTEGER NOT NULL,
    raw_text TEXT
);

CREATE TABLE IF NOT EXISTS extraction_logs (
    id SERIAL PRIMARY KEY,
    page_number INTEGER NOT NULL UNIQUE,
    status VARCHAR(20) NOT NULL,
    error_message TEXT,
    processed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voters_station ON voters(polling_station_id);
CREATE INDEX IF NOT EXISTS idx_logs_status ON extraction_logs(status);
`

// Init creates all tables needed for a run.
// Safe to call multiple times - uses IF NOT EXISTS.
func (s *Store) Init(ctx context.Context) error {
	ddl := schema
	if s.driver == "sqlite" {
		ddl = strings.ReplaceAll(ddl, "SERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT")
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Reset drops and recreates all tables.
func (s *Store) Reset(ctx context.Context) error {
	drops := []string{
		"DROP TABLE IF EXISTS voters",
		"DROP TABLE IF EXISTS extraction_logs",
		"DROP TABLE IF EXISTS polling_stations",
	}
	for _, q := range drops {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return s.Init(ctx)
}
