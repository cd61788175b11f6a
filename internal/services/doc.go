// Package services defines shared plumbing for the external media
// managers the exporter integrates with.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across service integrations.
//   - A rate-limited HTTP client with retry, backoff, and Retry-After
//     handling shared by the Radarr and Sonarr clients.
package services
