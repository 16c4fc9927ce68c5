package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// DefaultCategory receives entries extracted without a category name.
const DefaultCategory = "Other"

// Summary counts what a run wrote.
type Summary struct {
	CategoriesFound   int
	EntriesCreated    int
	EntriesUpdated    int
	DuplicatesSkipped int
}

// Add accumulates other into s.
func (s *Summary) Add(other Summary) {
	s.CategoriesFound += other.CategoriesFound
	s.EntriesCreated += other.EntriesCreated
	s.EntriesUpdated += other.EntriesUpdated
	s.DuplicatesSkipped += other.DuplicatesSkipped
}

// Repositories are the stores the engine reads and writes.
type Repositories struct {
	CVs        storage.CVRepository
	Categories storage.CategoryRepository
	Entries    storage.EntryRepository
	Pending    storage.PendingRepository
}

// Engine loads snapshots, applies plans and maintains duplicates.
type Engine struct {
	repos  Repositories
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithClock replaces time.Now for provenance timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		e.now = now
		return nil
	}
}

// NewEngine creates a reconciliation engine.
func NewEngine(repos Repositories, opts ...Option) (*Engine, error) {
	if repos.CVs == nil || repos.Categories == nil || repos.Entries == nil || repos.Pending == nil {
		return nil, errors.New("reconcile: all repositories are required")
	}
	e := &Engine{
		repos:  repos,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "reconcile")
	return e, nil
}

// Snapshot reads the user's canonical and pending title keys.
func (e *Engine) Snapshot(ctx context.Context, userID core.UserID) (*Snapshot, error) {
	snap := NewSnapshot()

	cv, err := e.repos.CVs.FindCVByUser(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		entries, err := e.repos.Entries.ListEntriesByCV(ctx, cv.Id)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			key := entry.TitleKey
			if key == "" {
				key = TitleKey(entry.Title)
			}
			// ListEntriesByCV is ID ordered; the oldest entry represents its key.
			if _, ok := snap.Canonical[key]; !ok {
				snap.Canonical[key] = Existing{
					Id:          entry.Id,
					HasDate:     entry.HasDate(),
					HasLocation: entry.Location != "",
				}
			}
		}
	}

	pending, err := e.repos.Pending.ListPendingEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range pending {
		key := p.TitleKey
		if key == "" {
			key = TitleKey(p.Title)
		}
		if _, ok := snap.Pending[key]; !ok {
			snap.Pending[key] = p.Id
		}
	}
	return snap, nil
}

// Reconcile snapshots the store, plans the extraction and applies the plan.
func (e *Engine) Reconcile(ctx context.Context, userID core.UserID, categories []core.ExtractedCategory, opts Options) (Summary, error) {
	snap, err := e.Snapshot(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return e.Apply(ctx, userID, Plan(categories, snap, opts), opts)
}

// Apply executes steps in order. A create that loses a race with a concurrent
// run for the same title key is counted as a duplicate. A storage error stops
// the run; writes already made stay.
func (e *Engine) Apply(ctx context.Context, userID core.UserID, steps []Step, opts Options) (Summary, error) {
	if userID == "" {
		return Summary{}, core.ErrMissingUser
	}
	summary := Summary{CategoriesFound: len(CategoryNames(steps))}
	if len(steps) == 0 {
		return summary, nil
	}

	var cv *core.CV
	categoryIDs := map[string]core.ID{}
	resolveCategory := func(name string) (core.ID, error) {
		if name == "" {
			name = DefaultCategory
		}
		lower := strings.ToLower(name)
		if id, ok := categoryIDs[lower]; ok {
			return id, nil
		}
		if cv == nil {
			var err error
			if cv, err = e.repos.CVs.GetOrCreateCV(ctx, userID); err != nil {
				return 0, err
			}
		}
		category, created, err := e.repos.Categories.GetOrCreateCategory(ctx, cv.Id, name)
		if err != nil {
			return 0, err
		}
		if created {
			e.logger.Debug("created category", "user", userID, "category", category.Name, "order", category.DisplayOrder)
		}
		categoryIDs[lower] = category.Id
		return category.Id, nil
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		switch step.Action {
		case ActionSkip:
			summary.DuplicatesSkipped++

		case ActionAugment:
			updated, err := e.augment(ctx, step)
			if err != nil {
				return summary, fmt.Errorf("augmenting entry %d: %w", step.ExistingID, err)
			}
			if updated {
				summary.EntriesUpdated++
			} else {
				summary.DuplicatesSkipped++
			}

		case ActionCreate:
			provenance := e.provenance(opts.Provenance, step.Entry)
			var err error
			if opts.Target == TargetPending {
				err = e.stage(ctx, userID, step, provenance)
			} else {
				var categoryID core.ID
				if categoryID, err = resolveCategory(step.Category); err != nil {
					return summary, fmt.Errorf("resolving category %q: %w", step.Category, err)
				}
				err = e.create(ctx, categoryID, step, provenance)
			}
			switch {
			case errors.Is(err, storage.ErrDuplicateKey):
				summary.DuplicatesSkipped++
			case err != nil:
				return summary, fmt.Errorf("creating entry %q: %w", step.Entry.Title, err)
			default:
				summary.EntriesCreated++
			}
		}
	}

	e.logger.Info("reconciled",
		"user", userID,
		"categories", summary.CategoriesFound,
		"created", summary.EntriesCreated,
		"updated", summary.EntriesUpdated,
		"duplicates", summary.DuplicatesSkipped)
	return summary, nil
}

func (e *Engine) provenance(template core.Provenance, entry core.ExtractedEntry) core.Provenance {
	p := template
	if p.Source == 0 {
		p.Source = core.SourceDocumentImport
	}
	if entry.ExternalID != "" {
		p.ExternalID = entry.ExternalID
	}
	if entry.SecondaryID != "" {
		p.SecondaryID = entry.SecondaryID
	}
	if p.ImportedAt.IsZero() {
		p.ImportedAt = e.now().UTC()
	}
	return p
}

func (e *Engine) create(ctx context.Context, categoryID core.ID, step Step, provenance core.Provenance) error {
	_, err := e.repos.Entries.AddUniqueEntry(ctx, &core.Entry{
		CategoryId:  categoryID,
		Title:       step.Entry.Title,
		TitleKey:    step.Key,
		Description: step.Entry.Description,
		Location:    step.Entry.Location,
		URL:         step.Entry.URL,
		Date:        step.Date,
		Provenance:  provenance,
	})
	return err
}

func (e *Engine) stage(ctx context.Context, userID core.UserID, step Step, provenance core.Provenance) error {
	_, err := e.repos.Pending.AddUniquePendingEntry(ctx, &core.PendingEntry{
		UserId:            userID,
		SuggestedCategory: step.Category,
		Title:             step.Entry.Title,
		TitleKey:          step.Key,
		Description:       step.Entry.Description,
		Location:          step.Entry.Location,
		URL:               step.Entry.URL,
		Date:              step.Date,
		Provenance:        provenance,
	})
	return err
}

// augment fills the date of an entry that is still undated. It reports false
// when another writer dated the entry first.
func (e *Engine) augment(ctx context.Context, step Step) (bool, error) {
	entry, err := e.repos.Entries.GetEntry(ctx, step.ExistingID)
	if err != nil {
		return false, err
	}
	if entry.HasDate() {
		return false, nil
	}
	entry.Date = step.Date
	if step.AugmentLocation && entry.Location == "" {
		entry.Location = step.Entry.Location
	}
	if _, err := e.repos.Entries.UpdateEntries(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}
