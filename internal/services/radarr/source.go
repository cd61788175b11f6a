package radarr

import (
	"context"
	"fmt"

	"arrscore/internal/export"
	"arrscore/internal/media"
)

// Source walks the Radarr movie library for the export pipeline.
type Source struct {
	client   *Client
	profiles map[int64]string
}

var _ export.Source = (*Source)(nil)

// NewSource wraps a client as an export source.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Service identifies the partition this source feeds.
func (s *Source) Service() media.ServiceType {
	return media.ServiceRadarr
}

// Collect lists movies that have a file on disk. The quality-profile
// map is loaded once per run so stubs carry resolved profile names.
func (s *Source) Collect(ctx context.Context) ([]export.Item, error) {
	profiles, err := s.client.QualityProfiles(ctx)
	if err != nil {
		return nil, err
	}
	s.profiles = make(map[int64]string, len(profiles))
	for _, p := range profiles {
		s.profiles[p.ID] = p.Name
	}

	movies, err := s.client.Movies(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]export.Item, 0, len(movies))
	for _, movie := range movies {
		if !movie.HasFile || movie.MovieFile == nil || movie.MovieFile.ID == 0 {
			continue
		}
		items = append(items, export.Item{
			FileID: movie.MovieFile.ID,
			Stub: export.RawFile{
				Service:            media.ServiceRadarr,
				FileID:             movie.MovieFile.ID,
				Title:              movie.Title,
				RelativePath:       movie.MovieFile.RelativePath,
				QualityProfileID:   movie.QualityProfileID,
				QualityProfileName: s.profileName(movie.QualityProfileID),
				Quality:            movie.MovieFile.Quality.Quality.Name,
				SizeBytes:          movie.MovieFile.Size,
				MovieID:            movie.ID,
				IMDBID:             movie.IMDBID,
				TMDBID:             movie.TMDBID,
			},
		})
	}
	return items, nil
}

// FileDetails merges the detailed file record over the collection stub.
func (s *Source) FileDetails(ctx context.Context, item export.Item) (export.RawFile, error) {
	file, err := s.client.MovieFileByID(ctx, item.FileID)
	if err != nil {
		return export.RawFile{}, err
	}

	raw := item.Stub
	if file.RelativePath != "" {
		raw.RelativePath = file.RelativePath
	}
	if file.Size > 0 {
		raw.SizeBytes = file.Size
	}
	if name := file.Quality.Quality.Name; name != "" {
		raw.Quality = name
	}
	raw.Codec = codecFrom(file.MediaInfo)
	raw.Resolution = resolutionFrom(file.MediaInfo)
	raw.AggregateScore = file.CustomFormatScore
	raw.CustomFormats = convertFormats(file.CustomFormats)
	return raw, nil
}

func (s *Source) profileName(id int64) string {
	if name, ok := s.profiles[id]; ok {
		return name
	}
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("Unknown ID: %d", id)
}

func convertFormats(formats []CustomFormat) []media.CustomFormat {
	if len(formats) == 0 {
		return nil
	}
	out := make([]media.CustomFormat, 0, len(formats))
	for _, cf := range formats {
		out = append(out, media.CustomFormat{
			Name:     cf.Name,
			Score:    cf.Score,
			FormatID: cf.ID,
		})
	}
	return out
}

func codecFrom(info MediaInfo) string {
	if info.VideoCodec != "" {
		return info.VideoCodec
	}
	if info.AudioCodec != "" {
		return "Audio: " + info.AudioCodec
	}
	return ""
}

func resolutionFrom(info MediaInfo) string {
	if info.Resolution != "" {
		return info.Resolution
	}
	if info.Height <= 0 {
		return ""
	}
	switch {
	case info.Height >= 2160:
		return "2160p"
	case info.Height >= 1440:
		return "1440p"
	case info.Height >= 1080:
		return "1080p"
	case info.Height >= 720:
		return "720p"
	default:
		return "SD"
	}
}
