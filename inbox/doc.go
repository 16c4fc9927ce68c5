// Package inbox turns files dropped into a directory into queued ingestion
// tasks.
package inbox
