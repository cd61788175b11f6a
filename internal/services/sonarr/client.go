// Package sonarr provides a typed client for the Sonarr v3 API and the
// export source that walks a series library's scored episode files.
package sonarr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"arrscore/internal/services"
)

// Series is the subset of the Sonarr series resource the exporter reads.
type Series struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Year             int    `json:"year"`
	Monitored        bool   `json:"monitored"`
	QualityProfileID int64  `json:"qualityProfileId"`
	TVDBID           int64  `json:"tvdbId"`
}

// Episode is one episode entry from the per-series episode listing.
type Episode struct {
	ID            int64  `json:"id"`
	SeriesID      int64  `json:"seriesId"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	HasFile       bool   `json:"hasFile"`
	EpisodeFileID int64  `json:"episodeFileId"`
}

// EpisodeFile is the Sonarr episode file resource with its
// custom-format evaluation.
type EpisodeFile struct {
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

// QualityWrapper unwraps Sonarr's nested quality object.
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

// Client accesses one Sonarr instance.
type Client struct {
	api *services.Client
}

// New creates a Sonarr client.
func New(baseURL, apiKey string, opts ...services.Option) (*Client, error) {
	api, err := services.NewClient("sonarr", baseURL, apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Ping verifies connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	return c.api.Ping(ctx)
}

// Series returns every series in the library.
func (c *Client) Series(ctx context.Context) ([]Series, error) {
	var series []Series
	if err := c.api.GetJSON(ctx, "/api/v3/series", nil, &series); err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	return series, nil
}

// Episodes returns all episodes of one series.
func (c *Client) Episodes(ctx context.Context, seriesID int64) ([]Episode, error) {
	query := url.Values{}
	query.Set("seriesId", strconv.FormatInt(seriesID, 10))
	var episodes []Episode
	if err := c.api.GetJSON(ctx, "/api/v3/episode", query, &episodes); err != nil {
		return nil, fmt.Errorf("list episodes for series %d: %w", seriesID, err)
	}
	return episodes, nil
}

// EpisodeFileByID fetches the detailed file record including its
// custom-format evaluation.
func (c *Client) EpisodeFileByID(ctx context.Context, fileID int64) (*EpisodeFile, error) {
	var file EpisodeFile
	if err := c.api.GetJSON(ctx, "/api/v3/episodeFile/"+strconv.FormatInt(fileID, 10), nil, &file); err != nil {
		return nil, fmt.Errorf("fetch episode file %d: %w", fileID, err)
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
