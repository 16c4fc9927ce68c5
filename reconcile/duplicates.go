package reconcile

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// DuplicateGroup is a set of canonical entries sharing a title key. Keep is
// the best-scored entry; Remove are proposed for deletion.
type DuplicateGroup struct {
	Key    string
	Keep   *core.Entry
	Remove []*core.Entry
}

// Score ranks entries within a duplicate group. Richer provenance and longer
// descriptions win.
func Score(entry *core.Entry) int {
	score := len(entry.Description) / 100
	if entry.Provenance.ExternalID != "" {
		score += 100
	}
	if entry.Provenance.SecondaryID != "" {
		score += 50
	}
	return score
}

// rank orders better entries first: higher score, then lower display order,
// then lower id.
func rank(a, b *core.Entry) int {
	return cmp.Or(
		cmp.Compare(Score(b), Score(a)),
		cmp.Compare(a.DisplayOrder, b.DisplayOrder),
		cmp.Compare(a.Id, b.Id),
	)
}

// ScanDuplicates groups the user's canonical entries by title key and
// proposes all but the best of each group for deletion. It writes nothing.
func (e *Engine) ScanDuplicates(ctx context.Context, userID core.UserID) ([]DuplicateGroup, error) {
	cv, err := e.repos.CVs.FindCVByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entries, err := e.repos.Entries.ListEntriesByCV(ctx, cv.Id)
	if err != nil {
		return nil, err
	}

	byKey := map[string][]*core.Entry{}
	var keys []string
	for _, entry := range entries {
		key := entry.TitleKey
		if key == "" {
			key = TitleKey(entry.Title)
		}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], entry)
	}

	var groups []DuplicateGroup
	for _, key := range keys {
		members := byKey[key]
		if len(members) < 2 {
			continue
		}
		slices.SortFunc(members, rank)
		groups = append(groups, DuplicateGroup{
			Key:    key,
			Keep:   members[0],
			Remove: members[1:],
		})
	}
	return groups, nil
}

// DeleteResult reports the outcome of DeleteDuplicates.
type DeleteResult struct {
	Deleted  []core.ID
	Rejected []core.ID
}

// DeleteDuplicates deletes the given entries, but only those proven to
// belong to the user. Anything else is rejected without revealing whether it
// exists.
func (e *Engine) DeleteDuplicates(ctx context.Context, userID core.UserID, ids []core.ID) (DeleteResult, error) {
	var result DeleteResult
	var errs []error
	for _, id := range ids {
		owned, err := e.ownsEntry(ctx, userID, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", id, err))
			continue
		}
		if !owned {
			result.Rejected = append(result.Rejected, id)
			continue
		}
		if err := e.repos.Entries.DeleteEntries(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				result.Rejected = append(result.Rejected, id)
				continue
			}
			errs = append(errs, fmt.Errorf("entry %d: %w", id, err))
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	if len(result.Deleted) > 0 {
		e.logger.Info("deleted duplicates", "user", userID, "deleted", len(result.Deleted), "rejected", len(result.Rejected))
	}
	return result, errors.Join(errs...)
}

// ownsEntry walks entry → category → CV and compares the owner. Missing
// links count as not owned.
func (e *Engine) ownsEntry(ctx context.Context, userID core.UserID, id core.ID) (bool, error) {
	entry, err := e.repos.Entries.GetEntry(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	category, err := e.repos.Categories.GetCategory(ctx, entry.CategoryId)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cv, err := e.repos.CVs.GetCV(ctx, category.CVId)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cv.UserId == userID, nil
}

// MissingDates returns the user's canonical entries that have no date.
func (e *Engine) MissingDates(ctx context.Context, userID core.UserID) ([]*core.Entry, error) {
	cv, err := e.repos.CVs.FindCVByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entries, err := e.repos.Entries.ListEntriesByCV(ctx, cv.Id)
	if err != nil {
		return nil, err
	}
	var missing []*core.Entry
	for _, entry := range entries {
		if !entry.HasDate() {
			missing = append(missing, entry)
		}
	}
	return missing, nil
}

// FindEntry returns the user's canonical entry whose title normalizes to the
// same key as title. Returns storage.ErrNotFound when there is none.
func (e *Engine) FindEntry(ctx context.Context, userID core.UserID, title string) (*core.Entry, error) {
	key := TitleKey(title)
	if key == "" {
		return nil, fmt.Errorf("%w: empty title", core.ErrInvalidInput)
	}
	cv, err := e.repos.CVs.FindCVByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.repos.Entries.FindEntryByTitleKey(ctx, cv.Id, key)
}
