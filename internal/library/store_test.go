package library_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"arrscore/internal/media"
	"arrscore/internal/testsupport"
)

func movieFile(movieID, fileID int64, title string, score int) *media.MediaFile {
	return &media.MediaFile{
		Service:            media.ServiceRadarr,
		MovieID:            movieID,
		FileID:             fileID,
		Title:              title,
		TotalScore:         score,
		QualityProfileID:   1,
		QualityProfileName: "HD-1080p",
	}
}

func TestUpsertInsertThenUpdate(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	file := movieFile(1, 10, "Alpha", 120)
	res, err := store.Upsert(ctx, file)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !res.Created || res.ScoreChanged {
		t.Fatalf("unexpected insert result: %#v", res)
	}

	file.TotalScore = 150
	res, err = store.Upsert(ctx, file)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if res.Created {
		t.Fatal("expected update, not insert")
	}
	if !res.ScoreChanged || res.PreviousScore != 120 {
		t.Fatalf("unexpected update result: %#v", res)
	}

	fetched, err := store.GetByUniqueID(ctx, file.UniqueID())
	if err != nil {
		t.Fatalf("GetByUniqueID failed: %v", err)
	}
	if fetched == nil || fetched.TotalScore != 150 {
		t.Fatalf("unexpected fetched file: %#v", fetched)
	}
}

func TestUpsertEqualScoreRecordsNoHistory(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	file := movieFile(2, 20, "Beta", 40)
	if _, err := store.Upsert(ctx, file); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	file.Codec = "x265"
	res, err := store.Upsert(ctx, file)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if res.ScoreChanged {
		t.Fatal("score did not change; no history expected")
	}

	events, err := store.HistoryEvents(ctx, media.ServiceRadarr, time.Time{})
	if err != nil {
		t.Fatalf("HistoryEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no history events, got %d", len(events))
	}
}

func TestUpsertScoreChangeAppendsHistory(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	file := movieFile(3, 30, "Gamma", 10)
	if _, err := store.Upsert(ctx, file); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	file.TotalScore = -30
	if _, err := store.Upsert(ctx, file); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	events, err := store.HistoryEvents(ctx, media.ServiceRadarr, time.Time{})
	if err != nil {
		t.Fatalf("HistoryEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one history event, got %d", len(events))
	}
	event := events[0]
	if event.OldScore != 10 || event.NewScore != -30 || event.ChangeType != media.ChangeDowngrade {
		t.Fatalf("unexpected event: %#v", event)
	}
}

func TestUpsertRemovesSupersededFile(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	old := movieFile(4, 40, "Delta", 5)
	if _, err := store.Upsert(ctx, old); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	replacement := movieFile(4, 41, "Delta", 95)
	res, err := store.Upsert(ctx, replacement)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if res.Superseded != 1 {
		t.Fatalf("expected one superseded row, got %d", res.Superseded)
	}

	gone, err := store.GetByUniqueID(ctx, old.UniqueID())
	if err != nil {
		t.Fatalf("GetByUniqueID failed: %v", err)
	}
	if gone != nil {
		t.Fatal("superseded row should be removed")
	}
}

func TestAppendHistoryEventRejectsNoOp(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	err := store.AppendHistoryEvent(ctx, media.ScoreHistoryEvent{
		FileUniqueID: "radarr:1:1",
		OldScore:     50,
		NewScore:     50,
		ChangeType:   media.ChangeUpgrade,
	})
	if !errors.Is(err, media.ErrNoChange) {
		t.Fatalf("expected ErrNoChange, got %v", err)
	}
}

func TestHistoryEventsSubSecondOrdering(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	appendAt := func(ts time.Time, newScore int) {
		t.Helper()
		err := store.AppendHistoryEvent(ctx, media.ScoreHistoryEvent{
			FileUniqueID: "radarr:1:1",
			Timestamp:    ts,
			OldScore:     0,
			NewScore:     newScore,
			ChangeType:   media.ChangeUpgrade,
		})
		if err != nil {
			t.Fatalf("AppendHistoryEvent failed: %v", err)
		}
	}

	// Same second, mixed sub-second precision, inserted out of order.
	// Whole seconds and trimmed fractions must still sort before longer
	// fractions of a later instant.
	appendAt(base.Add(500*time.Millisecond), 3)
	appendAt(base, 1)
	appendAt(base.Add(120*time.Millisecond), 2)

	events, err := store.HistoryEvents(ctx, media.ServiceRadarr, base)
	if err != nil {
		t.Fatalf("HistoryEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected three events, got %d", len(events))
	}
	for i, want := range []int{1, 2, 3} {
		if events[i].NewScore != want {
			t.Fatalf("events out of chronological order: got %d at index %d", events[i].NewScore, i)
		}
	}

	// A sub-second window boundary is inclusive of the event at the
	// boundary instant.
	events, err = store.HistoryEvents(ctx, media.ServiceRadarr, base.Add(500*time.Millisecond))
	if err != nil {
		t.Fatalf("HistoryEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].NewScore != 3 {
		t.Fatalf("expected only the boundary event, got %#v", events)
	}
}

func TestFilesByServicePartitionIsolation(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, movieFile(5, 50, "Movie", 10)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	episode := &media.MediaFile{
		Service:       media.ServiceSonarr,
		SeriesID:      9,
		SeasonNumber:  1,
		EpisodeNumber: 1,
		FileID:        51,
		Title:         "Show",
		TotalScore:    20,
	}
	if _, err := store.Upsert(ctx, episode); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	movies, err := store.FilesByService(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("FilesByService failed: %v", err)
	}
	if len(movies) != 1 || movies[0].Service != media.ServiceRadarr {
		t.Fatalf("unexpected radarr partition: %#v", movies)
	}

	episodes, err := store.FilesByService(ctx, media.ServiceSonarr)
	if err != nil {
		t.Fatalf("FilesByService failed: %v", err)
	}
	if len(episodes) != 1 || episodes[0].Service != media.ServiceSonarr {
		t.Fatalf("unexpected sonarr partition: %#v", episodes)
	}
}

func TestFilesRoundTripCustomFormats(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	file := movieFile(6, 60, "Epsilon", 400)
	file.CustomFormats = []media.CustomFormat{
		{Name: "HDR10+", Score: 500},
		{Name: "BR-DISK", Score: -100},
	}
	if _, err := store.Upsert(ctx, file); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	fetched, err := store.GetByUniqueID(ctx, file.UniqueID())
	if err != nil {
		t.Fatalf("GetByUniqueID failed: %v", err)
	}
	if len(fetched.CustomFormats) != 2 {
		t.Fatalf("expected two formats, got %#v", fetched.CustomFormats)
	}
	if fetched.CustomFormats[0].Name != "HDR10+" || fetched.CustomFormats[1].Score != -100 {
		t.Fatalf("format order not preserved: %#v", fetched.CustomFormats)
	}
}

func TestStats(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	scores := []int{100, 0, -40}
	for i, score := range scores {
		file := movieFile(int64(10+i), int64(100+i), "Stats", score)
		file.SizeBytes = 1000
		if _, err := store.Upsert(ctx, file); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalFiles != 3 || stats.PositiveScores != 1 || stats.NegativeScores != 1 || stats.ZeroScores != 1 {
		t.Fatalf("unexpected counts: %#v", stats)
	}
	if stats.MinScore != -40 || stats.MaxScore != 100 {
		t.Fatalf("unexpected min/max: %#v", stats)
	}
	if stats.MedianScore != 0 {
		t.Fatalf("expected median 0, got %v", stats.MedianScore)
	}
	if stats.TotalSizeBytes != 3000 {
		t.Fatalf("expected 3000 bytes, got %d", stats.TotalSizeBytes)
	}
	if stats.QualityProfiles["HD-1080p"] != 3 {
		t.Fatalf("unexpected profile distribution: %#v", stats.QualityProfiles)
	}
}

func TestStatsEmptyPartition(t *testing.T) {
	store := testsupport.MustOpenStore(t)

	stats, err := store.Stats(context.Background(), media.ServiceSonarr)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalFiles != 0 || stats.AvgScore != 0 || stats.MedianScore != 0 {
		t.Fatalf("expected zeroed stats, got %#v", stats)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	run := testsupport.NewExportRun(media.ServiceRadarr, 12, 11, 1)
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Processed != 12 || runs[0].Failed != 1 {
		t.Fatalf("unexpected runs: %#v", runs)
	}
}
