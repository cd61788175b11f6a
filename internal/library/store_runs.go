package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arrscore/internal/media"
)

// RecordRun persists export-run bookkeeping.
func (s *Store) RecordRun(ctx context.Context, run ExportRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO export_runs (id, service_type, started_at, duration_seconds, files_processed, files_stored, files_failed, success, error_message)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Service,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Seconds(),
		run.Processed,
		run.Stored,
		run.Failed,
		boolToInt(run.Success),
		nullableString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("record export run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit export runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]ExportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, service_type, started_at, duration_seconds, files_processed, files_stored, files_failed, success, error_message
         FROM export_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	var runs []ExportRun
	for rows.Next() {
		var (
			run        ExportRun
			serviceStr string
			startedRaw string
			seconds    float64
			success    int
			errMsg     sql.NullString
		)
		if err := rows.Scan(&run.ID, &serviceStr, &startedRaw, &seconds, &run.Processed, &run.Stored, &run.Failed, &success, &errMsg); err != nil {
			return nil, err
		}
		run.Service = media.ServiceType(serviceStr)
		run.Duration = time.Duration(seconds * float64(time.Second))
		run.Success = success != 0
		run.Error = errMsg.String
		if started, err := time.Parse(timeLayout, startedRaw); err == nil {
			run.StartedAt = started
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
