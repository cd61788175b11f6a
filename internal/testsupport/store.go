package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"arrscore/internal/library"
	"arrscore/internal/media"
)

// MustOpenStore opens a library.Store backed by a per-test temp database and
// registers cleanup.
func MustOpenStore(t testing.TB) *library.Store {
	t.Helper()

	store, err := library.Open(filepath.Join(t.TempDir(), "arrscore.db"))
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewExportRun builds a completed run record for tests.
func NewExportRun(service media.ServiceType, processed, stored, failed int) library.ExportRun {
	return library.ExportRun{
		ID:        "test-run",
		Service:   service,
		StartedAt: time.Now().UTC(),
		Duration:  2 * time.Second,
		Processed: processed,
		Stored:    stored,
		Failed:    failed,
		Success:   failed == 0,
	}
}
