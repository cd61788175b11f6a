package media

import (
	"fmt"
	"time"
)

// ServiceType identifies which media-management service a file belongs to.
// Analyses never cross service boundaries.
type ServiceType string

const (
	ServiceRadarr ServiceType = "radarr"
	ServiceSonarr ServiceType = "sonarr"
)

// Valid reports whether the service type is one of the known services.
func (s ServiceType) Valid() bool {
	return s == ServiceRadarr || s == ServiceSonarr
}

// ParseServiceType converts a string into a ServiceType.
func ParseServiceType(value string) (ServiceType, error) {
	switch ServiceType(value) {
	case ServiceRadarr:
		return ServiceRadarr, nil
	case ServiceSonarr:
		return ServiceSonarr, nil
	default:
		return "", fmt.Errorf("unknown service type %q", value)
	}
}

// CustomFormat is a named scoring rule matched against a file. The score is
// the signed point value the rule contributed to the file's total.
type CustomFormat struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	FormatID int64  `json:"format_id,omitempty"`
}

// MediaFile is one physical file tracked by Radarr or Sonarr, with the
// custom-format score breakdown recorded at export time.
//
// TotalScore equals the sum of CustomFormats scores whenever the breakdown
// is present; when the API supplied only the aggregate, CustomFormats may be
// empty and TotalScore stands alone. Consumers must not assume the breakdown
// is populated.
type MediaFile struct {
	Service       ServiceType
	FileID        int64
	Title         string
	RelativePath  string
	TotalScore    int
	CustomFormats []CustomFormat

	QualityProfileID   int64
	QualityProfileName string

	Quality    string
	Codec      string
	Resolution string
	SizeBytes  int64

	// Movie identity (radarr).
	MovieID int64
	IMDBID  string
	TMDBID  int64

	// Episode identity (sonarr).
	SeriesID      int64
	SeasonNumber  int
	EpisodeNumber int
	EpisodeTitle  string
	TVDBID        int64

	RecordedAt time.Time
}

// UniqueID composes the stable identifier used as the upsert key. It is
// deterministic across re-exports of the same physical file.
func (f *MediaFile) UniqueID() string {
	switch f.Service {
	case ServiceRadarr:
		return fmt.Sprintf("radarr:%d:%d", f.MovieID, f.FileID)
	case ServiceSonarr:
		return fmt.Sprintf("sonarr:%d:S%02dE%02d:%d", f.SeriesID, f.SeasonNumber, f.EpisodeNumber, f.FileID)
	default:
		return fmt.Sprintf("%s:%d", f.Service, f.FileID)
	}
}

// DisplayName returns a human-readable name, including episode numbering for
// Sonarr files.
func (f *MediaFile) DisplayName() string {
	if f.Service == ServiceSonarr {
		if f.EpisodeTitle != "" {
			return fmt.Sprintf("%s - S%02dE%02d - %s", f.Title, f.SeasonNumber, f.EpisodeNumber, f.EpisodeTitle)
		}
		return fmt.Sprintf("%s - S%02dE%02d", f.Title, f.SeasonNumber, f.EpisodeNumber)
	}
	return f.Title
}

// FormatScoreSum returns the sum of the per-format scores.
func (f *MediaFile) FormatScoreSum() int {
	total := 0
	for _, cf := range f.CustomFormats {
		total += cf.Score
	}
	return total
}
