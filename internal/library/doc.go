// Package library persists scored media files in SQLite. It is the single
// write path of the exporter: upserts keyed by the file's unique identifier,
// an append-only score history log, and export-run bookkeeping. All analyzer
// reads go through this package as well.
package library
