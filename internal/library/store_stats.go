package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arrscore/internal/media"
)

// Stats aggregates score and size statistics for a service partition. An
// empty partition returns zeroed stats rather than an error.
func (s *Store) Stats(ctx context.Context, service media.ServiceType) (LibraryStats, error) {
	stats := LibraryStats{
		Service:         service,
		GeneratedAt:     time.Now().UTC(),
		QualityProfiles: make(map[string]int),
		Resolutions:     make(map[string]int),
	}

	var (
		minScore sql.NullInt64
		maxScore sql.NullInt64
		avgScore sql.NullFloat64
		sizeSum  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT
            COUNT(*),
            SUM(CASE WHEN total_score > 0 THEN 1 ELSE 0 END),
            SUM(CASE WHEN total_score < 0 THEN 1 ELSE 0 END),
            SUM(CASE WHEN total_score = 0 THEN 1 ELSE 0 END),
            MIN(total_score),
            MAX(total_score),
            AVG(total_score),
            SUM(size_bytes)
         FROM media_files WHERE service_type = ?`,
		service,
	).Scan(
		&stats.TotalFiles,
		&nullableCount{&stats.PositiveScores},
		&nullableCount{&stats.NegativeScores},
		&nullableCount{&stats.ZeroScores},
		&minScore,
		&maxScore,
		&avgScore,
		&sizeSum,
	)
	if err != nil {
		return LibraryStats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	stats.MinScore = int(minScore.Int64)
	stats.MaxScore = int(maxScore.Int64)
	stats.AvgScore = avgScore.Float64
	stats.TotalSizeBytes = sizeSum.Int64

	if stats.TotalFiles == 0 {
		return stats, nil
	}

	median, err := s.medianScore(ctx, service, stats.TotalFiles)
	if err != nil {
		return LibraryStats{}, err
	}
	stats.MedianScore = median

	if err := s.countByColumn(ctx, service, "quality_profile_name", stats.QualityProfiles); err != nil {
		return LibraryStats{}, err
	}
	if err := s.countByColumn(ctx, service, "resolution", stats.Resolutions); err != nil {
		return LibraryStats{}, err
	}
	return stats, nil
}

func (s *Store) medianScore(ctx context.Context, service media.ServiceType, total int) (float64, error) {
	limit := 1
	offset := total / 2
	if total%2 == 0 {
		limit = 2
		offset = total/2 - 1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT total_score FROM media_files WHERE service_type = ?
         ORDER BY total_score LIMIT ? OFFSET ?`,
		service, limit, offset,
	)
	if err != nil {
		return 0, fmt.Errorf("median query: %w", err)
	}
	defer rows.Close()

	sum, count := 0, 0
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return 0, err
		}
		sum += score
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (s *Store) countByColumn(ctx context.Context, service media.ServiceType, column string, dest map[string]int) error {
	// column is always a fixed identifier from the callers above.
	query := `SELECT ` + column + `, COUNT(*) FROM media_files
        WHERE service_type = ? AND ` + column + ` IS NOT NULL
        GROUP BY ` + column + ` ORDER BY COUNT(*) DESC`
	rows, err := s.db.QueryContext(ctx, query, service)
	if err != nil {
		return fmt.Errorf("distribution query %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return err
		}
		dest[name] = count
	}
	return rows.Err()
}

// nullableCount scans SUM() results, which are NULL on empty partitions.
type nullableCount struct{ dest *int }

func (n *nullableCount) Scan(value any) error {
	if value == nil {
		*n.dest = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		*n.dest = int(v)
	case float64:
		*n.dest = int(v)
	default:
		return fmt.Errorf("unexpected count type %T", value)
	}
	return nil
}
