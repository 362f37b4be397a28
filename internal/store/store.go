// Package store persists polling stations, voter entries and the per-page
// extraction log. It speaks to SQLite (default, embedded) or PostgreSQL,
// selected by the DSN.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	// ErrDuplicateEPIC is returned when a voter insert hits an existing
	// epic_number. A duplicate is a data-quality signal, not a pipeline
	// failure; callers log it and continue.
	ErrDuplicateEPIC = errors.New("duplicate epic_number")

	// ErrMissingStationKey is returned when a station upsert lacks part_no
	// or section_no.
	ErrMissingStationKey = errors.New("missing part_no or section_no")
)

// Store wraps a SQL database holding the extraction record set.
type Store struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	logger *slog.Logger
}

// Open connects to the database behind the DSN. A postgres:// or
// postgresql:// DSN selects the Postgres driver; anything else is treated
// as a SQLite file path.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	// The pure-Go SQLite driver serializes writers; a single connection
	// avoids SQLITE_BUSY under concurrent upserts.
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	return &Store{db: db, driver: driver, logger: logger}, nil
}

// Driver returns the active driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts ?-style placeholders to $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
