// Package media defines the core entities shared across the exporter:
// scored media files, their custom-format breakdowns, and score history
// events. Everything downstream (store, analyzers, reports) operates on
// these types rather than raw service payloads.
package media
