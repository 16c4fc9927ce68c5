// Package redate re-runs date normalization over canonical entries that have
// no date.
//
// Entries imported before a date heuristic existed, or whose date text was
// only recoverable from the title or description, stay undated until they
// are re-dated. The Redater walks a user's undated entries in batches,
// normalizes each from its title and description, and writes back the ones
// that now resolve. Writes are retried with exponential backoff; progress is
// reported to an io.Writer.
package redate
