package testsupport

import (
	"path/filepath"
	"testing"

	"arrscore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Both services are enabled against placeholder endpoints; tests that talk
// to a real server override the URL with their httptest address.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Radarr = config.Service{Enabled: true, URL: "http://127.0.0.1:7878", APIKey: "test-radarr-key"}
	cfg.Sonarr = config.Service{Enabled: true, URL: "http://127.0.0.1:8989", APIKey: "test-sonarr-key"}
	cfg.Paths.DatabasePath = filepath.Join(base, "arrscore.db")
	cfg.Paths.ReportDir = filepath.Join(base, "reports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
