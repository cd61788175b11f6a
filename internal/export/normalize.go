package export

import (
	"errors"
	"fmt"

	"arrscore/internal/media"
)

// ErrMissingIdentity tags normalization failures caused by an absent
// identity field. Such records are skipped, never stored.
var ErrMissingIdentity = errors.New("missing identity field")

// NormalizationError reports which identity field a raw payload lacked.
type NormalizationError struct {
	Field string
	Title string
}

func (e *NormalizationError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("normalize %q: missing identity field %s", e.Title, e.Field)
	}
	return "normalize: missing identity field " + e.Field
}

func (e *NormalizationError) Unwrap() error {
	return ErrMissingIdentity
}

// Normalize converts a raw payload into the canonical record. Missing
// optional metadata is tolerated and defaults to zero values; a missing
// score counts as zero. When the per-format breakdown is present the
// total is its sum, keeping the stored invariant independent of any
// server-side aggregate.
func Normalize(raw RawFile) (*media.MediaFile, error) {
	if !raw.Service.Valid() {
		return nil, &NormalizationError{Field: "service_type", Title: raw.Title}
	}
	if raw.FileID <= 0 {
		return nil, &NormalizationError{Field: "file_id", Title: raw.Title}
	}
	switch raw.Service {
	case media.ServiceRadarr:
		if raw.MovieID <= 0 {
			return nil, &NormalizationError{Field: "movie_id", Title: raw.Title}
		}
	case media.ServiceSonarr:
		if raw.SeriesID <= 0 {
			return nil, &NormalizationError{Field: "series_id", Title: raw.Title}
		}
	}

	total := 0
	if len(raw.CustomFormats) > 0 {
		for _, cf := range raw.CustomFormats {
			total += cf.Score
		}
	} else if raw.AggregateScore != nil {
		total = *raw.AggregateScore
	}

	size := raw.SizeBytes
	if size < 0 {
		size = 0
	}

	return &media.MediaFile{
		Service:            raw.Service,
		FileID:             raw.FileID,
		Title:              raw.Title,
		RelativePath:       raw.RelativePath,
		TotalScore:         total,
		CustomFormats:      raw.CustomFormats,
		QualityProfileID:   raw.QualityProfileID,
		QualityProfileName: raw.QualityProfileName,
		Quality:            raw.Quality,
		Codec:              raw.Codec,
		Resolution:         raw.Resolution,
		SizeBytes:          size,
		MovieID:            raw.MovieID,
		IMDBID:             raw.IMDBID,
		TMDBID:             raw.TMDBID,
		SeriesID:           raw.SeriesID,
		SeasonNumber:       raw.SeasonNumber,
		EpisodeNumber:      raw.EpisodeNumber,
		EpisodeTitle:       raw.EpisodeTitle,
		TVDBID:             raw.TVDBID,
	}, nil
}
