// Package review implements the human decision step between staged and
// canonical entries.
//
// A pending entry is either approved (copied into a category, marked, then
// deleted) or rejected (deleted). There is no edit transition. Every
// operation fails closed: a record that cannot be proven to belong to the
// requesting user is reported as storage.ErrNotFound.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage"
)

// Queue is the review surface over the pending store.
type Queue struct {
	repos  reconcile.Repositories
	logger *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) error {
		q.logger = logger
		return nil
	}
}

// NewQueue creates a review queue.
func NewQueue(repos reconcile.Repositories, opts ...Option) (*Queue, error) {
	if repos.CVs == nil || repos.Categories == nil || repos.Entries == nil || repos.Pending == nil {
		return nil, errors.New("review: all repositories are required")
	}
	q := &Queue{
		repos:  repos,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}
	q.logger = q.logger.With("component", "review")
	return q, nil
}

// List returns the user's pending entries, oldest first.
func (q *Queue) List(ctx context.Context, userID core.UserID) ([]*core.PendingEntry, error) {
	return q.repos.Pending.ListPendingEntries(ctx, userID)
}

// Approve copies a pending entry into the given category and removes it from
// the queue. If the category already holds an entry with the same title key,
// that entry is returned and the pending record is still consumed.
func (q *Queue) Approve(ctx context.Context, userID core.UserID, pendingID, categoryID core.ID) (*core.Entry, error) {
	if categoryID == 0 {
		return nil, ErrNoCategory
	}
	pending, err := q.ownedPending(ctx, userID, pendingID)
	if err != nil {
		return nil, err
	}
	if err := q.ownsCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}

	entry := &core.Entry{
		CategoryId:  categoryID,
		Title:       pending.Title,
		TitleKey:    reconcile.TitleKey(pending.Title),
		Description: pending.Description,
		Location:    pending.Location,
		URL:         pending.URL,
		Date:        pending.Date,
		Provenance:  pending.Provenance,
	}
	created, err := q.repos.Entries.AddUniqueEntry(ctx, entry)
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("creating entry: %w", storage.ErrNotFound)
	}

	if err := q.repos.Pending.MarkApproved(ctx, pendingID); err != nil {
		return nil, fmt.Errorf("marking approved: %w", err)
	}
	if err := q.repos.Pending.DeletePendingEntries(ctx, pendingID); err != nil {
		return nil, fmt.Errorf("removing pending entry: %w", err)
	}

	q.logger.Debug("approved", "user", userID, "pending", pendingID, "entry", created.Id)
	return created, nil
}

// ApproveByName approves a pending entry into the user's existing category
// with the given name, compared case-insensitively. It never creates a
// category; an unknown name is storage.ErrNotFound.
func (q *Queue) ApproveByName(ctx context.Context, userID core.UserID, pendingID core.ID, categoryName string) (*core.Entry, error) {
	name := strings.TrimSpace(categoryName)
	if name == "" {
		return nil, ErrNoCategory
	}
	cv, err := q.repos.CVs.FindCVByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	category, err := q.repos.Categories.FindCategoryByName(ctx, cv.Id, name)
	if err != nil {
		return nil, err
	}
	return q.Approve(ctx, userID, pendingID, category.Id)
}

// Reject deletes a pending entry without creating anything.
func (q *Queue) Reject(ctx context.Context, userID core.UserID, pendingID core.ID) error {
	if _, err := q.ownedPending(ctx, userID, pendingID); err != nil {
		return err
	}
	if err := q.repos.Pending.DeletePendingEntries(ctx, pendingID); err != nil {
		return err
	}
	q.logger.Debug("rejected", "user", userID, "pending", pendingID)
	return nil
}

// Failure records one item a bulk operation could not process.
type Failure struct {
	PendingID core.ID
	Err       error
}

// BulkResult reports a bulk approval.
type BulkResult struct {
	Approved int
	Failures []Failure
}

// ApproveAll approves every pending entry of the user into its suggested
// category, creating categories as needed. It keeps going past individual
// failures.
func (q *Queue) ApproveAll(ctx context.Context, userID core.UserID) (BulkResult, error) {
	var result BulkResult
	pending, err := q.repos.Pending.ListPendingEntries(ctx, userID)
	if err != nil {
		return result, err
	}
	if len(pending) == 0 {
		return result, nil
	}
	cv, err := q.repos.CVs.GetOrCreateCV(ctx, userID)
	if err != nil {
		return result, err
	}

	categoryIDs := map[string]core.ID{}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name := strings.TrimSpace(p.SuggestedCategory)
		if name == "" {
			name = reconcile.DefaultCategory
		}
		categoryID, ok := categoryIDs[strings.ToLower(name)]
		if !ok {
			category, _, err := q.repos.Categories.GetOrCreateCategory(ctx, cv.Id, name)
			if err != nil {
				result.Failures = append(result.Failures, Failure{PendingID: p.Id, Err: err})
				continue
			}
			categoryID = category.Id
			categoryIDs[strings.ToLower(name)] = categoryID
		}
		if _, err := q.Approve(ctx, userID, p.Id, categoryID); err != nil {
			result.Failures = append(result.Failures, Failure{PendingID: p.Id, Err: err})
			continue
		}
		result.Approved++
	}

	q.logger.Info("bulk approved", "user", userID, "approved", result.Approved, "failed", len(result.Failures))
	return result, nil
}

// AddManual creates a canonical entry by hand in one of the user's
// categories.
func (q *Queue) AddManual(ctx context.Context, userID core.UserID, categoryID core.ID, entry *core.Entry) (*core.Entry, error) {
	if err := q.ownsCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	entry.CategoryId = categoryID
	entry.TitleKey = reconcile.TitleKey(entry.Title)
	entry.Provenance.Source = core.SourceManual
	return q.repos.Entries.AddUniqueEntry(ctx, entry)
}

func (q *Queue) ownedPending(ctx context.Context, userID core.UserID, id core.ID) (*core.PendingEntry, error) {
	pending, err := q.repos.Pending.GetPendingEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending.UserId != userID {
		return nil, storage.ErrNotFound
	}
	return pending, nil
}

func (q *Queue) ownsCategory(ctx context.Context, userID core.UserID, categoryID core.ID) error {
	category, err := q.repos.Categories.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	cv, err := q.repos.CVs.GetCV(ctx, category.CVId)
	if err != nil {
		return err
	}
	if cv.UserId != userID {
		return storage.ErrNotFound
	}
	return nil
}
