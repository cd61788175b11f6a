package media

import (
	"errors"
	"time"
)

// ErrNoChange indicates an attempt to record a history event where the score
// did not change. No-op events are rejected at the write boundary instead of
// being stored.
var ErrNoChange = errors.New("score unchanged")

// ChangeType classifies the direction of a score change.
type ChangeType string

const (
	ChangeUpgrade   ChangeType = "upgrade"
	ChangeDowngrade ChangeType = "downgrade"
)

// ScoreHistoryEvent is an immutable fact: at Timestamp, the file identified
// by FileUniqueID moved from OldScore to NewScore.
type ScoreHistoryEvent struct {
	FileUniqueID string
	Timestamp    time.Time
	OldScore     int
	NewScore     int
	ChangeType   ChangeType
}

// NewScoreHistoryEvent derives the change type from the score delta. It
// returns ErrNoChange when the scores are equal.
func NewScoreHistoryEvent(uniqueID string, at time.Time, oldScore, newScore int) (ScoreHistoryEvent, error) {
	if oldScore == newScore {
		return ScoreHistoryEvent{}, ErrNoChange
	}
	change := ChangeUpgrade
	if newScore < oldScore {
		change = ChangeDowngrade
	}
	return ScoreHistoryEvent{
		FileUniqueID: uniqueID,
		Timestamp:    at.UTC(),
		OldScore:     oldScore,
		NewScore:     newScore,
		ChangeType:   change,
	}, nil
}
