package redate

import (
	"context"

	"github.com/poiesic/vitae/core"
)

// DefaultBatchSize is the default number of entries handed to fn at once.
const DefaultBatchSize = 100

// Source lists a user's canonical entries without a date.
// reconcile.Engine implements it.
type Source interface {
	MissingDates(ctx context.Context, userID core.UserID) ([]*core.Entry, error)
}

// EntryIterator walks a user's undated entries in batches.
type EntryIterator struct {
	source    Source
	batchSize int
}

// NewEntryIterator creates a new entry iterator. A non-positive batchSize
// selects DefaultBatchSize.
func NewEntryIterator(source Source, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &EntryIterator{
		source:    source,
		batchSize: batchSize,
	}
}

// Load returns every undated entry of the user.
func (it *EntryIterator) Load(ctx context.Context, userID core.UserID) ([]*core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return it.source.MissingDates(ctx, userID)
}

// ForEach calls fn with consecutive batches of entries. Iteration stops on
// the first error from fn; cancellation is checked between batches.
func (it *EntryIterator) ForEach(ctx context.Context, entries []*core.Entry, fn func([]*core.Entry) error) error {
	for start := 0; start < len(entries); start += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+it.batchSize, len(entries))
		if err := fn(entries[start:end]); err != nil {
			return err
		}
	}
	return nil
}
