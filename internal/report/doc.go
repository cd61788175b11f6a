// Package report renders analysis results to files. CSV exports carry
// the per-file score breakdown in a spreadsheet-friendly shape; the HTML
// health report is a self-contained server-rendered page with no
// external assets.
package report
