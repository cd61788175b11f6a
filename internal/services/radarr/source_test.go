package radarr_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"arrscore/internal/services/radarr"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/qualityprofile", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"HD-1080p"},{"id":2,"name":"Ultra-HD"}]`))
	})
	mux.HandleFunc("/api/v3/movie", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
            {"id":5,"title":"Heat","year":1995,"hasFile":true,"qualityProfileId":1,
             "imdbId":"tt0113277","tmdbId":949,
             "movieFile":{"id":50,"relativePath":"Heat (1995).mkv","size":4096}},
            {"id":6,"title":"Missing","hasFile":false},
            {"id":7,"title":"No File ID","hasFile":true,"movieFile":{"id":0}}
        ]`))
	})
	mux.HandleFunc("/api/v3/movieFile/50", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
            "id":50,"relativePath":"Heat (1995).mkv","size":4096,
            "quality":{"quality":{"name":"Bluray-1080p"}},
            "mediaInfo":{"videoCodec":"x265","height":1080},
            "customFormats":[{"id":3,"name":"HDR10+","score":100},{"id":4,"name":"x265","score":40}],
            "customFormatScore":140
        }`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSourceCollectSkipsMissingFiles(t *testing.T) {
	server := newTestServer(t)
	client, err := radarr.New(server.URL, "key")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	source := radarr.NewSource(client)

	items, err := source.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	stub := items[0].Stub
	if stub.MovieID != 5 || stub.FileID != 50 {
		t.Fatalf("unexpected identity: %#v", stub)
	}
	if stub.QualityProfileName != "HD-1080p" {
		t.Fatalf("expected resolved profile name, got %q", stub.QualityProfileName)
	}
}

func TestSourceFileDetailsMergesStub(t *testing.T) {
	server := newTestServer(t)
	client, err := radarr.New(server.URL, "key")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	source := radarr.NewSource(client)
	ctx := context.Background()

	items, err := source.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	raw, err := source.FileDetails(ctx, items[0])
	if err != nil {
		t.Fatalf("FileDetails failed: %v", err)
	}

	if raw.Quality != "Bluray-1080p" || raw.Codec != "x265" || raw.Resolution != "1080p" {
		t.Fatalf("technical fields not extracted: %#v", raw)
	}
	if len(raw.CustomFormats) != 2 || raw.CustomFormats[0].Name != "HDR10+" {
		t.Fatalf("formats not preserved in order: %#v", raw.CustomFormats)
	}
	if raw.AggregateScore == nil || *raw.AggregateScore != 140 {
		t.Fatalf("aggregate score missing: %#v", raw.AggregateScore)
	}
	if raw.Title != "Heat" || raw.MovieID != 5 {
		t.Fatalf("stub fields lost in merge: %#v", raw)
	}
}
