package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arrscore/internal/media"
)

// AppendHistoryEvent records a score change. Events with equal old and new
// scores are rejected with media.ErrNoChange; the change log never contains
// no-op entries.
func (s *Store) AppendHistoryEvent(ctx context.Context, event media.ScoreHistoryEvent) error {
	if event.OldScore == event.NewScore {
		return media.ErrNoChange
	}
	return insertHistoryEvent(ctx, s.db, event)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertHistoryEvent(ctx context.Context, ex execer, event media.ScoreHistoryEvent) error {
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO score_history (unique_identifier, timestamp, old_score, new_score, change_type)
         VALUES (?, ?, ?, ?, ?)`,
		event.FileUniqueID,
		timestamp.UTC().Format(timeLayout),
		event.OldScore,
		event.NewScore,
		event.ChangeType,
	)
	if err != nil {
		return fmt.Errorf("insert history event: %w", err)
	}
	return nil
}

// HistoryEvents returns score changes for a service partition at or after
// since, oldest first. Partition membership follows the unique identifier
// prefix, which always starts with the service name.
func (s *Store) HistoryEvents(ctx context.Context, service media.ServiceType, since time.Time) ([]media.ScoreHistoryEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unique_identifier, timestamp, old_score, new_score, change_type
         FROM score_history
         WHERE unique_identifier LIKE ? AND timestamp >= ?
         ORDER BY timestamp, id`,
		string(service)+":%",
		since.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query history events: %w", err)
	}
	defer rows.Close()

	var events []media.ScoreHistoryEvent
	for rows.Next() {
		var (
			event        media.ScoreHistoryEvent
			timestampRaw string
			changeStr    string
		)
		if err := rows.Scan(&event.FileUniqueID, &timestampRaw, &event.OldScore, &event.NewScore, &changeStr); err != nil {
			return nil, err
		}
		event.ChangeType = media.ChangeType(changeStr)
		if ts, err := time.Parse(timeLayout, timestampRaw); err == nil {
			event.Timestamp = ts
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
