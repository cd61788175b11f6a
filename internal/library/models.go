package library

import (
	"time"

	"arrscore/internal/media"
)

// UpsertResult describes what an upsert did to the store.
type UpsertResult struct {
	Created       bool
	ScoreChanged  bool
	PreviousScore int
	// Superseded counts older rows for the same movie/episode that were
	// replaced by this file.
	Superseded int
}

// LibraryStats aggregates a service partition at query time. It is derived,
// never stored.
type LibraryStats struct {
	Service     media.ServiceType
	GeneratedAt time.Time

	TotalFiles     int
	PositiveScores int
	NegativeScores int
	ZeroScores     int

	MinScore    int
	MaxScore    int
	AvgScore    float64
	MedianScore float64

	TotalSizeBytes int64

	QualityProfiles map[string]int
	Resolutions     map[string]int
}

// ExportRun records one completed export invocation.
type ExportRun struct {
	ID        string
	Service   media.ServiceType
	StartedAt time.Time
	Duration  time.Duration
	Processed int
	Stored    int
	Failed    int
	Success   bool
	Error     string
}
