package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arrscore/internal/testsupport"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	handler := newConsoleHandler(&buf, slog.LevelInfo)

	record := slog.NewRecord(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), slog.LevelWarn, "score changed", 0)
	record.AddAttrs(slog.String("service", "radarr"), slog.Int("delta", -25))
	if err := handler.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	line := buf.String()
	for _, want := range []string{"2026-03-14T09:30:00Z", "WARN", "score changed", "service=radarr", "delta=-25"} {
		if !strings.Contains(line, want) {
			t.Fatalf("output missing %q: %s", want, line)
		}
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := newConsoleHandler(&buf, slog.LevelDebug)
	logger := slog.New(handler).WithGroup("run").With("id", "abc")

	logger.Info("started")
	if !strings.Contains(buf.String(), "run.id=abc") {
		t.Fatalf("expected flattened group key, got: %s", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelWarn))

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Fatalf("warn record should pass: %s", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("exported", "count", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, data)
	}
	if entry["msg"] != "exported" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigMirrorsToLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	logger.Info("export started", "service", "radarr")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "arrscore.log"))
	if err != nil {
		t.Fatalf("read mirrored log: %v", err)
	}
	if !strings.Contains(string(data), "export started") {
		t.Fatalf("log file missing record: %s", data)
	}
}
