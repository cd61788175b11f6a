package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"arrscore/internal/media"
)

// Trends buckets the partition's score-change history into UTC days
// within the window. A library with no recorded changes yields an empty
// sequence, which is the normal state after a first export.
func (a *Analyzer) Trends(ctx context.Context, service media.ServiceType, windowDays int) ([]TrendBucket, error) {
	if windowDays <= 0 {
		windowDays = a.opts.TrendWindowDays
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)

	events, err := a.store.HistoryEvents(ctx, service, since)
	if err != nil {
		return nil, fmt.Errorf("load %s history: %w", service, err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	type bucket struct {
		changes  int
		scoreSum int
	}
	buckets := make(map[time.Time]*bucket)
	for _, event := range events {
		day := event.Timestamp.UTC().Truncate(24 * time.Hour)
		b := buckets[day]
		if b == nil {
			b = &bucket{}
			buckets[day] = b
		}
		b.changes++
		b.scoreSum += event.NewScore
	}

	results := make([]TrendBucket, 0, len(buckets))
	for day, b := range buckets {
		results = append(results, TrendBucket{
			Date:     day,
			Changes:  b.changes,
			AvgScore: float64(b.scoreSum) / float64(b.changes),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})
	return results, nil
}

// trendSummary nets upgrades against downgrades over the window.
func (a *Analyzer) trendSummary(ctx context.Context, service media.ServiceType) (TrendSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -a.opts.TrendWindowDays)
	events, err := a.store.HistoryEvents(ctx, service, since)
	if err != nil {
		return TrendSummary{}, fmt.Errorf("load %s history: %w", service, err)
	}

	summary := TrendSummary{WindowDays: a.opts.TrendWindowDays}
	for _, event := range events {
		switch event.ChangeType {
		case media.ChangeUpgrade:
			summary.Upgrades++
		case media.ChangeDowngrade:
			summary.Downgrades++
		}
	}
	summary.Net = summary.Upgrades - summary.Downgrades
	return summary, nil
}
