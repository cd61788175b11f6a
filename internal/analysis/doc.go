// Package analysis turns the stored score table into upgrade
// recommendations, per-format effectiveness metrics, quality-profile
// ratings, a library health grade, and historical trend buckets. Every
// entry point is a pure read over the store: results are recomputed on
// each call and analyzers never write.
package analysis
