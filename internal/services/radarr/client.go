// Package radarr provides a typed client for the Radarr v3 API and the
// export source that walks a movie library's scored files.
package radarr

import (
	"context"
	"fmt"
	"strconv"

	"arrscore/internal/services"
)

// Movie is the subset of the Radarr movie resource the exporter reads.
type Movie struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Year             int        `json:"year"`
	HasFile          bool       `json:"hasFile"`
	Monitored        bool       `json:"monitored"`
	QualityProfileID int64      `json:"qualityProfileId"`
	IMDBID           string     `json:"imdbId"`
	TMDBID           int64      `json:"tmdbId"`
	MovieFile        *MovieFile `json:"movieFile"`
}

// MovieFile is the Radarr movie file resource with its custom-format
// evaluation.
type MovieFile struct {
	ID                int64          `json:"id"`
	RelativePath      string         `json:"relativePath"`
	Size              int64          `json:"size"`
	Quality           QualityWrapper `json:"quality"`
	MediaInfo         MediaInfo      `json:"mediaInfo"`
	CustomFormats     []CustomFormat `json:"customFormats"`
	CustomFormatScore *int           `json:"customFormatScore"`
}

// CustomFormat is one matched format on a file. Score is absent on
// older server versions and defaults to zero.
type CustomFormat struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// QualityWrapper unwraps Radarr's nested quality object.
type QualityWrapper struct {
	Quality struct {
		Name string `json:"name"`
	} `json:"quality"`
}

// MediaInfo carries the technical details the exporter keeps.
type MediaInfo struct {
	VideoCodec string `json:"videoCodec"`
	AudioCodec string `json:"audioCodec"`
	Resolution string `json:"resolution"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// QualityProfile maps a profile id to its display name.
type QualityProfile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client accesses one Radarr instance.
type Client struct {
	api *services.Client
}

// New creates a Radarr client.
func New(baseURL, apiKey string, opts ...services.Option) (*Client, error) {
	api, err := services.NewClient("radarr", baseURL, apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Ping verifies connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	return c.api.Ping(ctx)
}

// Movies returns every movie in the library.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := c.api.GetJSON(ctx, "/api/v3/movie", nil, &movies); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// MovieFileByID fetches the detailed file record including its
// custom-format evaluation.
func (c *Client) MovieFileByID(ctx context.Context, fileID int64) (*MovieFile, error) {
	var file MovieFile
	if err := c.api.GetJSON(ctx, "/api/v3/movieFile/"+strconv.FormatInt(fileID, 10), nil, &file); err != nil {
		return nil, fmt.Errorf("fetch movie file %d: %w", fileID, err)
	}
	return &file, nil
}

// QualityProfiles returns the configured quality profiles.
func (c *Client) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := c.api.GetJSON(ctx, "/api/v3/qualityprofile", nil, &profiles); err != nil {
		return nil, fmt.Errorf("list quality profiles: %w", err)
	}
	return profiles, nil
}
