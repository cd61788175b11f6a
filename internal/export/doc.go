// Package export runs the service-agnostic export pipeline: collect
// scored items from a media manager, fetch file details in parallel,
// normalize them into canonical records, and upsert them into the
// library store. The movie and series walks share one pipeline
// parameterized by a Source; only the Source knows service specifics.
package export
