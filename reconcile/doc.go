// Package reconcile merges extracted records into a user's CV.
//
// Reconciliation is split in two. Plan is a pure function from an extraction
// and a Snapshot of existing title keys to a list of Steps; Engine.Apply
// executes the steps against storage. Both the synchronous pipeline and the
// background job runner go through the same Engine.
//
// Entries are identified by TitleKey alone. A key already in the canonical
// store, in the pending queue, or accepted earlier in the same run is a
// duplicate. With AugmentDates, a duplicate carrying a date fills in an
// undated canonical entry instead of being dropped.
package reconcile
