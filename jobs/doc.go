// Package jobs runs document ingestion in the background.
//
// A submitted document is persisted as a task together with its full text.
// Chunking is deterministic, so a task never stores chunks: every attempt
// re-chunks the text and resumes at the first chunk not yet done.
//
// Lifecycle:
//
//	waiting -> active -> completed
//	                  -> waiting (retry after backoff)
//	                  -> failed  (attempts exhausted)
//	waiting -> failed (cancelled)
//
// Admission control runs at submit time: a user whose credit balance cannot
// pay for one chunk gets core.ErrInsufficientCredits and no task is created.
// Every processed chunk is debited. When the balance runs out mid-document
// the task completes with a partial result.
package jobs
