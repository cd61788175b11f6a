package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"arrscore/internal/library"
	"arrscore/internal/media"
)

const defaultWorkers = 4

// Summary reports the outcome of one export run.
type Summary struct {
	RunID     string
	Service   media.ServiceType
	StartedAt time.Time
	Duration  time.Duration

	Processed    int
	Stored       int
	Failed       int
	ScoreChanges int
	Superseded   int
}

// Pipeline drives one export run: collect, fetch details in parallel,
// normalize, and store. Normalization failures skip the record and
// count toward Failed; only collection or storage errors abort the run.
type Pipeline struct {
	store   *library.Store
	source  Source
	workers int
	logger  *slog.Logger
}

// NewPipeline builds a pipeline over store and source. workers bounds
// the parallel detail fetches.
func NewPipeline(store *library.Store, source Source, workers int, logger *slog.Logger) *Pipeline {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:   store,
		source:  source,
		workers: workers,
		logger:  logger.With("service", source.Service()),
	}
}

// Run executes the pipeline and records the run in the store. The run
// record is written even when the run fails partway.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		Service:   p.source.Service(),
		StartedAt: time.Now().UTC(),
	}
	err := p.run(ctx, &summary)
	summary.Duration = time.Since(summary.StartedAt)

	record := library.ExportRun{
		ID:        summary.RunID,
		Service:   summary.Service,
		StartedAt: summary.StartedAt,
		Duration:  summary.Duration,
		Processed: summary.Processed,
		Stored:    summary.Stored,
		Failed:    summary.Failed,
		Success:   err == nil,
	}
	if err != nil {
		record.Error = err.Error()
	}
	if recordErr := p.store.RecordRun(ctx, record); recordErr != nil {
		p.logger.Warn("failed to record export run", "error", recordErr)
	}
	return summary, err
}

func (p *Pipeline) run(ctx context.Context, summary *Summary) error {
	lock, err := NewRunLock(p.store.Path())
	if err != nil {
		return err
	}
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			p.logger.Warn("failed to release run lock", "error", err)
		}
	}()

	p.logger.Info("collecting library items")
	items, err := p.source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect items: %w", err)
	}
	summary.Processed = len(items)
	p.logger.Info("collected items", "count", len(items))
	if len(items) == 0 {
		return nil
	}

	raws, fetchFailures := p.fetchDetails(ctx, items)
	summary.Failed += fetchFailures
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, raw := range raws {
		file, err := Normalize(raw)
		if err != nil {
			summary.Failed++
			var normErr *NormalizationError
			if errors.As(err, &normErr) {
				p.logger.Warn("skipping record", "title", normErr.Title, "missing", normErr.Field)
				continue
			}
			p.logger.Warn("skipping record", "error", err)
			continue
		}

		result, err := p.store.Upsert(ctx, file)
		if err != nil {
			return fmt.Errorf("store %s: %w", file.UniqueID(), err)
		}
		summary.Stored++
		summary.Superseded += result.Superseded
		if result.ScoreChanged {
			summary.ScoreChanges++
			p.logger.Info("score changed",
				"file", file.DisplayName(),
				"old", result.PreviousScore,
				"new", file.TotalScore)
		}
	}

	p.logger.Info("export run finished",
		"processed", summary.Processed,
		"stored", summary.Stored,
		"failed", summary.Failed,
		"score_changes", summary.ScoreChanges)
	return nil
}

// fetchDetails resolves file details with a bounded worker pool.
// Results keep collection order so repeated runs store records in a
// stable sequence.
func (p *Pipeline) fetchDetails(ctx context.Context, items []Item) ([]RawFile, int) {
	type slot struct {
		raw  RawFile
		err  error
		done bool
	}
	slots := make([]slot, len(items))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				raw, err := p.source.FileDetails(ctx, items[i])
				slots[i] = slot{raw: raw, err: err, done: true}
			}
		}()
	}

feed:
	for i := range items {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	raws := make([]RawFile, 0, len(items))
	failures := 0
	for i, s := range slots {
		if !s.done {
			continue
		}
		if s.err != nil {
			failures++
			p.logger.Warn("failed to fetch file details",
				"file_id", items[i].FileID,
				"error", s.err)
			continue
		}
		raws = append(raws, s.raw)
	}
	return raws, failures
}
