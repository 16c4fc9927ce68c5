package redate

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/dates"
	"github.com/poiesic/vitae/storage"
)

// BatchProcessor normalizes dates for batches of entries and stores the
// entries that resolve.
type BatchProcessor struct {
	entries        storage.EntryRepository
	maxRetries     int
	retryBaseDelay time.Duration
	dryRun         bool
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of write attempts per batch
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(entries storage.EntryRepository, maxRetries int, retryBaseDelay time.Duration, dryRun bool) *BatchProcessor {
	return &BatchProcessor{
		entries:        entries,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		dryRun:         dryRun,
	}
}

// Process dates the entries it can and returns them. Entries that still do
// not resolve are left untouched. In dry-run mode nothing is written.
func (bp *BatchProcessor) Process(ctx context.Context, batch []*core.Entry) ([]*core.Entry, error) {
	var dated []*core.Entry
	for _, entry := range batch {
		if entry.HasDate() {
			continue
		}
		date := dates.Normalize("", entry.Title, entry.Description)
		if date.IsZero() {
			continue
		}
		updated := *entry
		updated.Date = date
		dated = append(dated, &updated)
	}
	if len(dated) == 0 || bp.dryRun {
		return dated, nil
	}

	err := RetryWithBackoff(ctx, func() error {
		_, err := bp.entries.UpdateEntries(ctx, dated...)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to update entries after %d attempts: %w", bp.maxRetries, err)
	}
	return dated, nil
}
