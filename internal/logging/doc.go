// Package logging builds slog loggers for the CLI. The console format
// writes compact single-line records for interactive use; the json
// format emits machine-readable records for log collectors. When a log
// directory is configured, records are mirrored to arrscore.log there.
package logging
