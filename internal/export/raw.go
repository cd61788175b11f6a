package export

import (
	"context"

	"arrscore/internal/media"
)

// RawFile is the service-neutral payload a Source hands the normalizer.
// Optional fields stay zero when the upstream API omits them; only
// identity fields are mandatory.
type RawFile struct {
	Service media.ServiceType
	FileID  int64

	Title        string
	RelativePath string

	// AggregateScore is the server-computed total when present. The
	// per-format breakdown takes precedence when it is non-empty.
	AggregateScore *int
	CustomFormats  []media.CustomFormat

	QualityProfileID   int64
	QualityProfileName string
	Quality            string
	Codec              string
	Resolution         string
	SizeBytes          int64

	MovieID int64
	IMDBID  string
	TMDBID  int64

	SeriesID      int64
	SeasonNumber  int
	EpisodeNumber int
	EpisodeTitle  string
	TVDBID        int64
}

// Item is one scored file discovered during collection. Stub carries
// the metadata known from the listing; the pipeline merges it with the
// detailed file record later.
type Item struct {
	FileID int64
	Stub   RawFile
}

// Source walks one media manager's library. Implementations hold the
// service-specific API knowledge; the pipeline stays generic.
type Source interface {
	Service() media.ServiceType

	// Collect lists every scored file in the library, cheap metadata
	// included.
	Collect(ctx context.Context) ([]Item, error)

	// FileDetails fetches the detailed record for one item and merges
	// it over the collection stub.
	FileDetails(ctx context.Context, item Item) (RawFile, error)
}
