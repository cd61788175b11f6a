package export_test

import (
	"errors"
	"testing"

	"arrscore/internal/export"
	"arrscore/internal/media"
)

func intPtr(v int) *int { return &v }

func TestNormalizeSumsBreakdown(t *testing.T) {
	raw := export.RawFile{
		Service: media.ServiceRadarr,
		FileID:  10,
		MovieID: 1,
		Title:   "Heat",
		// Server aggregate disagrees with the breakdown; the breakdown
		// wins so the stored invariant holds.
		AggregateScore: intPtr(999),
		CustomFormats: []media.CustomFormat{
			{Name: "HDR10+", Score: 100},
			{Name: "x265", Score: 40},
		},
	}
	file, err := export.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if file.TotalScore != 140 {
		t.Fatalf("expected total 140, got %d", file.TotalScore)
	}
	if file.TotalScore != file.FormatScoreSum() {
		t.Fatal("total must equal the breakdown sum")
	}
	if file.CustomFormats[0].Name != "HDR10+" {
		t.Fatalf("format order not preserved: %#v", file.CustomFormats)
	}
}

func TestNormalizeUsesAggregateWithoutBreakdown(t *testing.T) {
	raw := export.RawFile{
		Service:        media.ServiceRadarr,
		FileID:         10,
		MovieID:        1,
		AggregateScore: intPtr(75),
	}
	file, err := export.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if file.TotalScore != 75 {
		t.Fatalf("expected aggregate 75, got %d", file.TotalScore)
	}
}

func TestNormalizeMissingScoreIsZero(t *testing.T) {
	raw := export.RawFile{
		Service: media.ServiceSonarr,
		FileID:  20,
		SeriesID: 3,
	}
	file, err := export.Normalize(raw)
	if err != nil {
		t.Fatalf("missing score must not be an error: %v", err)
	}
	if file.TotalScore != 0 {
		t.Fatalf("expected zero score, got %d", file.TotalScore)
	}
}

func TestNormalizeMissingIdentityFails(t *testing.T) {
	cases := []struct {
		name string
		raw  export.RawFile
	}{
		{"no service", export.RawFile{FileID: 1, MovieID: 1}},
		{"no file id", export.RawFile{Service: media.ServiceRadarr, MovieID: 1}},
		{"no movie id", export.RawFile{Service: media.ServiceRadarr, FileID: 1}},
		{"no series id", export.RawFile{Service: media.ServiceSonarr, FileID: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := export.Normalize(tc.raw)
			if !errors.Is(err, export.ErrMissingIdentity) {
				t.Fatalf("expected ErrMissingIdentity, got %v", err)
			}
			var normErr *export.NormalizationError
			if !errors.As(err, &normErr) || normErr.Field == "" {
				t.Fatalf("expected field detail, got %v", err)
			}
		})
	}
}

func TestNormalizeNegativeSizeBecomesZero(t *testing.T) {
	raw := export.RawFile{
		Service:   media.ServiceRadarr,
		FileID:    10,
		MovieID:   1,
		SizeBytes: -5,
	}
	file, err := export.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if file.SizeBytes != 0 {
		t.Fatalf("expected zero size, got %d", file.SizeBytes)
	}
}
