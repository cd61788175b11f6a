package analysis

import (
	"context"
	"time"

	"arrscore/internal/media"
)

// Store is the read surface the analyzers consume. *library.Store
// satisfies it; tests may substitute fixtures.
type Store interface {
	FilesByService(ctx context.Context, service media.ServiceType) ([]*media.MediaFile, error)
	HistoryEvents(ctx context.Context, service media.ServiceType, since time.Time) ([]media.ScoreHistoryEvent, error)
}

// Options carries the numeric knobs of the engine. The zero value is
// not usable; start from DefaultOptions.
type Options struct {
	// MinScoreThreshold admits any file scoring below it as a candidate
	// regardless of its distance from the partition average.
	MinScoreThreshold int

	// HarmfulFormatScore marks a per-format score at or below it as a
	// harmful release class, forcing critical priority.
	HarmfulFormatScore int

	// Gap sizes below the partition average that escalate a candidate
	// to high or medium priority.
	CriticalGap float64
	ModerateGap float64

	// Tier cutoffs shared by format impact and profile effectiveness
	// ratings, applied to the delta against the partition average.
	HighImpactCutoff   float64
	MediumImpactCutoff float64
	LowImpactCutoff    float64

	// TrendWindowDays bounds the history window the health report
	// summarizes.
	TrendWindowDays int
}

// DefaultOptions returns the tuning used when the configuration does
// not override it.
func DefaultOptions() Options {
	return Options{
		MinScoreThreshold:  -50,
		HarmfulFormatScore: -1000,
		CriticalGap:        50,
		ModerateGap:        15,
		HighImpactCutoff:   50,
		MediumImpactCutoff: 10,
		LowImpactCutoff:    -10,
		TrendWindowDays:    30,
	}
}

// Analyzer evaluates one partition at a time against the store.
type Analyzer struct {
	store Store
	opts  Options
}

// New builds an Analyzer over store. Opts is taken as given; callers
// wanting the stock tuning start from DefaultOptions and override the
// knobs they care about. A zero threshold or cutoff is honored, not
// treated as unset.
func New(store Store, opts Options) *Analyzer {
	return &Analyzer{store: store, opts: opts}
}

// Options returns the resolved tuning.
func (a *Analyzer) Options() Options {
	return a.opts
}

func meanScore(files []*media.MediaFile) float64 {
	if len(files) == 0 {
		return 0
	}
	sum := 0
	for _, f := range files {
		sum += f.TotalScore
	}
	return float64(sum) / float64(len(files))
}
