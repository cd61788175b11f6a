package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arrscore/internal/library"
	"arrscore/internal/media"
)

type cliTestEnv struct {
	configPath string
	dbPath     string
	baseDir    string
}

// setupCLITestEnv writes a loadable config with both services disabled.
// Commands that only read the local database run against it directly;
// tests that need live services patch the config in place.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	dbPath := filepath.Join(base, "arrscore.db")
	configPath := filepath.Join(base, "config.yaml")
	contents := fmt.Sprintf(`
paths:
  database_path: %q
  report_dir: %q
  log_dir: %q
`, dbPath, filepath.Join(base, "reports"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, dbPath: dbPath, baseDir: base}
}

// seedFiles inserts files directly so read-only commands have data.
func (env *cliTestEnv) seedFiles(t *testing.T, files ...*media.MediaFile) {
	t.Helper()
	store, err := library.Open(env.dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	for _, file := range files {
		if file.RecordedAt.IsZero() {
			file.RecordedAt = time.Now().UTC()
		}
		if _, err := store.Upsert(context.Background(), file); err != nil {
			t.Fatalf("seed file %s: %v", file.Title, err)
		}
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd, ctx := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	ctx.close()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func movieFile(fileID, movieID int64, title string, score int) *media.MediaFile {
	return &media.MediaFile{
		Service:            media.ServiceRadarr,
		FileID:             fileID,
		MovieID:            movieID,
		Title:              title,
		RelativePath:       title + ".mkv",
		TotalScore:         score,
		QualityProfileID:   1,
		QualityProfileName: "HD-1080p",
		RecordedAt:         time.Now().UTC(),
	}
}
