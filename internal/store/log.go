package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RecordPageStatus upserts the extraction_logs row for a page. Re-processing
// a page overwrites its prior row; a page never appears twice in the ledger.
func (s *Store) RecordPageStatus(ctx context.Context, pageNumber int, status, errorMessage string) error {
	query := `INSERT INTO extraction_logs (page_number, status, error_message, processed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(page_number) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			processed_at = excluded.processed_at`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		pageNumber, status, errorMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record page status: %w", err)
	}
	return nil
}

// GetPageLog returns the ledger row for a page.
// Returns sql.ErrNoRows (wrapped) when the page was never attempted.
func (s *Store) GetPageLog(ctx context.Context, pageNumber int) (PageLog, error) {
	var (
		l      PageLog
		errMsg *string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT page_number, status, error_message, processed_at
		 FROM extraction_logs WHERE page_number = ?`), pageNumber,
	).Scan(&l.PageNumber, &l.Status, &errMsg, &l.ProcessedAt)
	if err != nil {
		return PageLog{}, err
	}
	if errMsg != nil {
		l.ErrorMessage = *errMsg
	}
	return l, nil
}

// CompletedPages returns the set of page numbers already marked COMPLETED.
// The pipeline skips these entirely on restart.
func (s *Store) CompletedPages(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_number FROM extraction_logs WHERE status = 'COMPLETED'`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed pages: %w", err)
	}
	defer rows.Close()

	done := make(map[int]bool)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan page number: %w", err)
		}
		done[n] = true
	}
	return done, rows.Err()
}

// FailedPages returns the ledger rows marked FAILED, in page order.
// This is the manual re-run target list.
func (s *Store) FailedPages(ctx context.Context) ([]PageLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_number, status, error_message, processed_at
		 FROM extraction_logs WHERE status = 'FAILED' ORDER BY page_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query failed pages: %w", err)
	}
	defer rows.Close()

	var logs []PageLog
	for rows.Next() {
		var (
			l      PageLog
			errMsg *string
		)
		if err := rows.Scan(&l.PageNumber, &l.Status, &errMsg, &l.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		if errMsg != nil {
			l.ErrorMessage = *errMsg
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// PageStatusCounts returns ledger row counts grouped by status.
func (s *Store) PageStatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM extraction_logs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// LastProcessedAt returns the most recent processed_at across the ledger,
// or the zero time if no page has been attempted. The column is selected
// directly rather than through MAX(): aggregates lose the declared column
// type, and the SQLite driver then hands back a string instead of a time.
func (s *Store) LastProcessedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT processed_at FROM extraction_logs ORDER BY processed_at DESC LIMIT 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last processed time: %w", err)
	}
	return ts, nil
}
