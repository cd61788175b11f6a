package analysis_test

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"arrscore/internal/analysis"
	"arrscore/internal/library"
	"arrscore/internal/media"
	"arrscore/internal/testsupport"
)

func seedMovie(t *testing.T, store *library.Store, movieID int64, title string, score int, formats ...media.CustomFormat) {
	t.Helper()
	file := &media.MediaFile{
		Service:            media.ServiceRadarr,
		MovieID:            movieID,
		FileID:             movieID * 10,
		Title:              title,
		TotalScore:         score,
		CustomFormats:      formats,
		QualityProfileName: "HD-1080p",
	}
	if _, err := store.Upsert(context.Background(), file); err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
}

func TestUpgradeCandidatesHarmfulFormat(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	// Scores 100, 0, -9000 average out to -2966.67. The two non-negative
	// files sit above that average with no harmful formats, so only the
	// outlier qualifies.
	seedMovie(t, store, 1, "Good Movie", 100, media.CustomFormat{Name: "HDR10+", Score: 100})
	seedMovie(t, store, 2, "Plain Movie", 0)
	seedMovie(t, store, 3, "Cam Rip", -9000, media.CustomFormat{Name: "LQ-CAM", Score: -10000})

	candidates, err := analyzer.UpgradeCandidates(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d: %#v", len(candidates), candidates)
	}
	worst := candidates[0]
	if worst.Priority != analysis.PriorityCritical {
		t.Fatalf("expected critical priority, got %d", worst.Priority)
	}
	if !strings.Contains(worst.Reason, "LQ-CAM") {
		t.Fatalf("reason should name the harmful format: %q", worst.Reason)
	}
	if worst.PotentialGain != 6033 {
		t.Fatalf("expected gain 6033, got %d", worst.PotentialGain)
	}
}

func TestUpgradeCandidatesPriorityTiers(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	// Average is 50. Gaps select the tiers: 60 below, 20 below, 5 below.
	seedMovie(t, store, 1, "Top", 115)
	seedMovie(t, store, 2, "Far Below", -10)
	seedMovie(t, store, 3, "Mid Below", 30)
	seedMovie(t, store, 4, "Just Below", 45)
	seedMovie(t, store, 5, "Above", 70)

	candidates, err := analyzer.UpgradeCandidates(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected three candidates, got %d", len(candidates))
	}

	got := map[string]int{}
	for _, c := range candidates {
		got[c.File.Title] = c.Priority
	}
	want := map[string]int{
		"Far Below":  analysis.PriorityHigh,
		"Mid Below":  analysis.PriorityMedium,
		"Just Below": analysis.PriorityLow,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("priorities mismatch: got %v want %v", got, want)
	}

	// Most urgent first, worse files first within a class.
	if candidates[0].File.Title != "Far Below" {
		t.Fatalf("expected Far Below first, got %s", candidates[0].File.Title)
	}
	if candidates[0].PotentialGain != 60 {
		t.Fatalf("expected gain 60, got %d", candidates[0].PotentialGain)
	}
}

func TestUpgradeCandidatesBelowThresholdAlwaysIncluded(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	// Average is -325, so the -600 file is already a candidate through
	// the gap rules, but the -55 file sits above average and would be
	// excluded were it not under the minimum threshold.
	seedMovie(t, store, 1, "Deep", -600)
	seedMovie(t, store, 2, "Under Threshold", -55)
	seedMovie(t, store, 3, "Fine", -320)

	candidates, err := analyzer.UpgradeCandidates(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}

	var underThreshold *analysis.UpgradeCandidate
	for i := range candidates {
		if candidates[i].File.Title == "Under Threshold" {
			underThreshold = &candidates[i]
		}
	}
	if underThreshold == nil {
		t.Fatal("file below minimum threshold must always be a candidate")
	}
	if underThreshold.Priority != analysis.PriorityLow {
		t.Fatalf("expected low priority, got %d", underThreshold.Priority)
	}
	if underThreshold.PotentialGain != 0 {
		t.Fatalf("gain floors at zero for above-average files, got %d", underThreshold.PotentialGain)
	}
}

func TestUpgradeCandidatesZeroThresholdHonored(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	opts := analysis.DefaultOptions()
	opts.MinScoreThreshold = 0
	analyzer := analysis.New(store, opts)
	ctx := context.Background()

	// Average is -40. The -10 files sit above both the average and the
	// stock -50 threshold, so only an explicit zero threshold admits
	// them.
	seedMovie(t, store, 1, "Deep", -100)
	seedMovie(t, store, 2, "Slightly Negative A", -10)
	seedMovie(t, store, 3, "Slightly Negative B", -10)

	candidates, err := analyzer.UpgradeCandidates(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected all three files as candidates, got %d: %#v", len(candidates), candidates)
	}
	for _, c := range candidates[1:] {
		if c.Priority != analysis.PriorityLow {
			t.Fatalf("expected low priority for %s, got %d", c.File.Title, c.Priority)
		}
		if !strings.Contains(c.Reason, "minimum threshold (0)") {
			t.Fatalf("reason should cite the zero threshold: %q", c.Reason)
		}
	}
}

func TestUpgradeCandidatesDeterministicOrder(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	seedMovie(t, store, 1, "Bravo", -40)
	seedMovie(t, store, 2, "Alpha", -40)
	seedMovie(t, store, 3, "Charlie", 200)

	first, err := analyzer.UpgradeCandidates(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}
	second, err := analyzer.UpgradeCandidates(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated calls must return identical ordered results")
	}
	if first[0].File.Title != "Alpha" || first[1].File.Title != "Bravo" {
		t.Fatalf("equal scores must tie-break by title: %s, %s", first[0].File.Title, first[1].File.Title)
	}
}

func TestUpgradeCandidatesEmptyPartition(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())

	candidates, err := analyzer.UpgradeCandidates(context.Background(), media.ServiceSonarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestFormatEffectivenessContribution(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	// Library average is 50; files carrying HDR10+ average 100, so the
	// format contributes +50 and rates high.
	hdr := media.CustomFormat{Name: "HDR10+", Score: 25}
	seedMovie(t, store, 1, "One", 120, hdr)
	seedMovie(t, store, 2, "Two", 80, hdr)
	seedMovie(t, store, 3, "Three", 0)
	seedMovie(t, store, 4, "Four", 0)

	results, err := analyzer.FormatEffectiveness(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("FormatEffectiveness failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one format, got %d", len(results))
	}
	hdrResult := results[0]
	if hdrResult.FormatName != "HDR10+" || hdrResult.UsageCount != 2 {
		t.Fatalf("unexpected result: %#v", hdrResult)
	}
	if hdrResult.AvgScoreContribution != 50 {
		t.Fatalf("expected contribution 50, got %v", hdrResult.AvgScoreContribution)
	}
	if hdrResult.Impact != analysis.ImpactHigh {
		t.Fatalf("expected high impact, got %s", hdrResult.Impact)
	}
}

func TestFormatEffectivenessSingleFileFormat(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())

	seedMovie(t, store, 1, "Solo", -30, media.CustomFormat{Name: "BR-DISK", Score: -30})

	results, err := analyzer.FormatEffectiveness(context.Background(), media.ServiceRadarr)
	if err != nil {
		t.Fatalf("FormatEffectiveness failed: %v", err)
	}
	if len(results) != 1 || results[0].UsageCount != 1 {
		t.Fatalf("single-file formats still produce an entry: %#v", results)
	}
}

func TestQualityProfilesReuseTierCutoffs(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	mk := func(movieID int64, title, profile string, score int) {
		file := &media.MediaFile{
			Service:            media.ServiceRadarr,
			MovieID:            movieID,
			FileID:             movieID * 10,
			Title:              title,
			TotalScore:         score,
			QualityProfileName: profile,
		}
		if _, err := store.Upsert(ctx, file); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// Partition average is 50. UHD averages 90 (+40, good), HD
	// averages 10 (-40, poor).
	mk(1, "A", "UHD", 140)
	mk(2, "B", "UHD", 120)
	mk(3, "C", "HD", 20)
	mk(4, "D", "HD", 0)
	mk(5, "E", "HD", 10)
	mk(6, "F", "UHD", 10)

	results, err := analyzer.QualityProfiles(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("QualityProfiles failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two profiles, got %d", len(results))
	}
	byName := map[string]analysis.QualityProfileAnalysis{}
	for _, r := range results {
		byName[r.ProfileName] = r
	}
	uhd := byName["UHD"]
	if uhd.FileCount != 3 || uhd.AvgScore != 90 || uhd.Rating != analysis.RatingGood {
		t.Fatalf("unexpected UHD analysis: %#v", uhd)
	}
	hd := byName["HD"]
	if hd.FileCount != 3 || hd.AvgScore != 10 || hd.Rating != analysis.RatingPoor {
		t.Fatalf("unexpected HD analysis: %#v", hd)
	}
	if results[0].ProfileName != "UHD" {
		t.Fatalf("profiles sort by average descending, got %s first", results[0].ProfileName)
	}
}

func TestPartitionIsolation(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	seedMovie(t, store, 1, "Movie", -500)
	episode := &media.MediaFile{
		Service:       media.ServiceSonarr,
		SeriesID:      7,
		SeasonNumber:  2,
		EpisodeNumber: 3,
		FileID:        99,
		Title:         "Episode",
		TotalScore:    -500,
	}
	if _, err := store.Upsert(ctx, episode); err != nil {
		t.Fatalf("seed episode: %v", err)
	}

	candidates, err := analyzer.UpgradeCandidates(ctx, media.ServiceSonarr)
	if err != nil {
		t.Fatalf("UpgradeCandidates failed: %v", err)
	}
	for _, c := range candidates {
		if c.File.Service != media.ServiceSonarr {
			t.Fatalf("movie row leaked into series analysis: %#v", c.File)
		}
	}
}

func TestHealthReportComposite(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	// avg 100 gives the avg factor 60; all files non-negative and none
	// critical, so the composite is 0.4*60 + 0.3*100 + 0.3*100 = 84.
	seedMovie(t, store, 1, "A", 150)
	seedMovie(t, store, 2, "B", 100)
	seedMovie(t, store, 3, "C", 50)

	report, err := analyzer.HealthReport(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("HealthReport failed: %v", err)
	}
	if report.TotalFiles != 3 {
		t.Fatalf("expected 3 files, got %d", report.TotalFiles)
	}
	if report.HealthScore != 84 {
		t.Fatalf("expected composite 84, got %v", report.HealthScore)
	}
	if report.Grade != analysis.GradeB {
		t.Fatalf("expected grade B, got %s", report.Grade)
	}
	if len(report.Achievements) == 0 {
		t.Fatal("healthy library should report achievements")
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", report.Warnings)
	}
}

func TestHealthReportWarnsOnCriticalFiles(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	seedMovie(t, store, 1, "Fine", 100)
	seedMovie(t, store, 2, "Cam", -2000, media.CustomFormat{Name: "LQ-CAM", Score: -5000})

	report, err := analyzer.HealthReport(ctx, media.ServiceRadarr)
	if err != nil {
		t.Fatalf("HealthReport failed: %v", err)
	}
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "1 files need immediate attention") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected critical-file warning, got %v", report.Warnings)
	}
}

func TestHealthReportEmptyPartitionIsNoData(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())

	report, err := analyzer.HealthReport(context.Background(), media.ServiceRadarr)
	if err != nil {
		t.Fatalf("HealthReport failed: %v", err)
	}
	if !report.NoData() {
		t.Fatalf("empty partition must be the no-data sentinel, got grade %s", report.Grade)
	}
	if report.Grade == analysis.GradeF {
		t.Fatal("empty partition must never grade F")
	}
	if report.HealthScore != 0 {
		t.Fatalf("expected zero health score, got %v", report.HealthScore)
	}
}

func TestTrendsBucketsByDay(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())
	ctx := context.Background()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	record := func(id string, at time.Time, oldScore, newScore int) {
		event, err := media.NewScoreHistoryEvent(id, at, oldScore, newScore)
		if err != nil {
			t.Fatalf("build event: %v", err)
		}
		if err := store.AppendHistoryEvent(ctx, event); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}
	record("radarr:1:10", today.Add(-14*time.Hour), 0, 40)
	record("radarr:2:20", today.Add(-13*time.Hour), 10, 60)
	record("radarr:3:30", today.Add(time.Hour), 100, 20)

	buckets, err := analyzer.Trends(ctx, media.ServiceRadarr, 7)
	if err != nil {
		t.Fatalf("Trends failed: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected two day buckets, got %d", len(buckets))
	}
	first := buckets[0]
	if first.Changes != 2 || first.AvgScore != 50 {
		t.Fatalf("unexpected first bucket: %#v", first)
	}
	if !buckets[0].Date.Before(buckets[1].Date) {
		t.Fatal("buckets must be ordered oldest first")
	}
}

func TestTrendsEmptyWindow(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	analyzer := analysis.New(store, analysis.DefaultOptions())

	buckets, err := analyzer.Trends(context.Background(), media.ServiceRadarr, 30)
	if err != nil {
		t.Fatalf("Trends failed: %v", err)
	}
	if len(buckets) != 0 {
		t.Fatalf("expected empty trend window, got %d buckets", len(buckets))
	}
}
