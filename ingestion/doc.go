// Package ingestion provides the synchronous ingestion pipeline.
//
// A Pipeline turns an uploaded document into canonical entries:
//   - text extraction by media type
//   - chunking into bounded pieces
//   - concurrent extraction of every chunk (bounded by an errgroup limit)
//   - reconciliation of each chunk against the store, strictly in document order
//
// A chunk whose extraction fails is counted in Summary.ChunksFailed and
// skipped; the rest of the document is still reconciled. Emails and
// bibliographic search results go through the same engine but are staged as
// pending entries for review.
//
// The per-chunk step (ProcessChunk) is shared with the background job runner.
package ingestion
