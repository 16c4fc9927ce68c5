package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
	"github.com/poiesic/vitae/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *badger.Repositories) {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	engine, err := NewEngine(Repositories{
		CVs:        repos.CVs,
		Categories: repos.Categories,
		Entries:    repos.Entries,
		Pending:    repos.Pending,
	})
	require.NoError(t, err)
	return engine, repos
}

var documentImport = Options{
	Target:     TargetCanonical,
	Provenance: core.Provenance{Source: core.SourceDocumentImport},
}

func sampleExtraction() []core.ExtractedCategory {
	return []core.ExtractedCategory{
		{Name: "Education", Entries: []core.ExtractedEntry{
			{Title: "PhD in Physics", RawDateText: "2005 - 2010", Location: "MIT"},
			{Title: "BSc Physics", RawDateText: "2001"},
		}},
		{Name: "Awards", Entries: []core.ExtractedEntry{
			{Title: "Best Paper Award", Description: "ICML"},
		}},
	}
}

func TestReconcile_CreatesCategoriesAndEntries(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	summary, err := engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
	require.NoError(t, err)
	assert.Equal(t, Summary{CategoriesFound: 2, EntriesCreated: 3}, summary)

	cv, err := repos.CVs.FindCVByUser(ctx, "alice")
	require.NoError(t, err)
	categories, err := repos.Categories.ListCategories(ctx, cv.Id)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Education", categories[0].Name)

	entries, err := repos.Entries.ListEntriesByCategory(ctx, categories[0].Id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "phd in physics", entries[0].TitleKey)
	assert.Equal(t, time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.Equal(t, 1, entries[0].DisplayOrder)
	assert.Equal(t, 2, entries[1].DisplayOrder)
	assert.Equal(t, core.SourceDocumentImport, entries[0].Provenance.Source)
	assert.False(t, entries[0].Provenance.ImportedAt.IsZero())
}

func TestReconcile_RerunIsIdempotent(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
	require.NoError(t, err)
	summary, err := engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
	require.NoError(t, err)
	assert.Equal(t, Summary{CategoriesFound: 2, DuplicatesSkipped: 3}, summary)

	cv, err := repos.CVs.FindCVByUser(ctx, "alice")
	require.NoError(t, err)
	entries, err := repos.Entries.ListEntriesByCV(ctx, cv.Id)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	categories, err := repos.Categories.ListCategories(ctx, cv.Id)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestReconcile_ExistingCategoryMatchedCaseInsensitively(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
	require.NoError(t, err)
	_, err = engine.Reconcile(ctx, "alice", []core.ExtractedCategory{
		{Name: "EDUCATION", Entries: []core.ExtractedEntry{{Title: "MSc Physics"}}},
	}, documentImport)
	require.NoError(t, err)

	cv, err := repos.CVs.FindCVByUser(ctx, "alice")
	require.NoError(t, err)
	categories, err := repos.Categories.ListCategories(ctx, cv.Id)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	entries, err := repos.Entries.ListEntriesByCategory(ctx, categories[0].Id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[2].DisplayOrder)
}

func TestReconcile_AugmentsMissingDate(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, "alice", []core.ExtractedCategory{
		{Name: "Awards", Entries: []core.ExtractedEntry{{Title: "Fellowship"}}},
	}, documentImport)
	require.NoError(t, err)

	opts := documentImport
	opts.AugmentDates = true
	summary, err := engine.Reconcile(ctx, "alice", []core.ExtractedCategory{
		{Name: "Awards", Entries: []core.ExtractedEntry{{Title: "The Fellowship", RawDateText: "March 2015", Location: "Paris"}}},
	}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EntriesUpdated)
	assert.Zero(t, summary.EntriesCreated)

	missing, err := engine.MissingDates(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, missing)

	cv, err := repos.CVs.FindCVByUser(ctx, "alice")
	require.NoError(t, err)
	entry, err := repos.Entries.FindEntryByTitleKey(ctx, cv.Id, "fellowship")
	require.NoError(t, err)
	assert.Equal(t, 2015, entry.Date.Year())
	assert.Equal(t, "Paris", entry.Location)
	assert.Equal(t, "Fellowship", entry.Title)
}

func TestReconcile_PendingTargetStagesAndDedupes(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
	require.NoError(t, err)

	opts := Options{Target: TargetPending, Provenance: core.Provenance{Source: core.SourceEmail}}
	summary, err := engine.Reconcile(ctx, "alice", []core.ExtractedCategory{
		{Name: "Talks", Entries: []core.ExtractedEntry{{Title: "Invited Talk at CERN"}, {Title: "Best paper award"}}},
	}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EntriesCreated)
	assert.Equal(t, 1, summary.DuplicatesSkipped)

	pending, err := repos.Pending.ListPendingEntries(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Talks", pending[0].SuggestedCategory)
	assert.Equal(t, core.SourceEmail, pending[0].Provenance.Source)

	summary, err = engine.Reconcile(ctx, "alice", []core.ExtractedCategory{
		{Name: "Talks", Entries: []core.ExtractedEntry{{Title: "Invited talk at CERN!"}}},
	}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DuplicatesSkipped)
}

func TestReconcile_ConcurrentRunsCreateOnce(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	summaries := make([]Summary, 6)
	for i := range summaries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
			assert.NoError(t, err)
			summaries[i] = s
		}()
	}
	wg.Wait()

	created := 0
	for _, s := range summaries {
		created += s.EntriesCreated
		assert.Equal(t, 3, s.EntriesCreated+s.DuplicatesSkipped)
	}
	assert.Equal(t, 3, created)

	cv, err := repos.CVs.FindCVByUser(ctx, "alice")
	require.NoError(t, err)
	entries, err := repos.Entries.ListEntriesByCV(ctx, cv.Id)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestScanAndDeleteDuplicates(t *testing.T) {
	engine, repos := newTestEngine(t)
	ctx := context.Background()

	cv, err := repos.CVs.GetOrCreateCV(ctx, "alice")
	require.NoError(t, err)
	pubs, _, err := repos.Categories.GetOrCreateCategory(ctx, cv.Id, "Publications")
	require.NoError(t, err)

	plain := &core.Entry{CategoryId: pubs.Id, Title: "On Graphs", TitleKey: "on graphs"}
	withDOI := &core.Entry{CategoryId: pubs.Id, Title: "On graphs.", TitleKey: "on graphs",
		Provenance: core.Provenance{Source: core.SourceBibliographicImport, ExternalID: "W123", SecondaryID: "10.1/x"}}
	long := &core.Entry{CategoryId: pubs.Id, Title: "ON GRAPHS", TitleKey: "on graphs", Description: fmt.Sprintf("%0300d", 0)}
	single := &core.Entry{CategoryId: pubs.Id, Title: "Unique", TitleKey: "unique"}
	_, err = repos.Entries.AddEntries(ctx, plain, withDOI, long, single)
	require.NoError(t, err)

	groups, err := engine.ScanDuplicates(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, withDOI.Id, groups[0].Keep.Id)
	require.Len(t, groups[0].Remove, 2)
	assert.Equal(t, long.Id, groups[0].Remove[0].Id)
	assert.Equal(t, plain.Id, groups[0].Remove[1].Id)

	// Another user cannot delete alice's entries.
	result, err := engine.DeleteDuplicates(ctx, "mallory", []core.ID{plain.Id})
	require.NoError(t, err)
	assert.Empty(t, result.Deleted)
	assert.Equal(t, []core.ID{plain.Id}, result.Rejected)

	result, err = engine.DeleteDuplicates(ctx, "alice", []core.ID{plain.Id, long.Id, 999999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.ID{plain.Id, long.Id}, result.Deleted)
	assert.Equal(t, []core.ID{999999}, result.Rejected)

	groups, err = engine.ScanDuplicates(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindEntry(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.FindEntry(ctx, "alice", "Best Paper Award")
	assert.ErrorIs(t, err, storage.ErrNotFound, "no CV yet")

	_, err = engine.Reconcile(ctx, "alice", sampleExtraction(), documentImport)
	require.NoError(t, err)

	entry, err := engine.FindEntry(ctx, "alice", "the best-paper award!")
	require.NoError(t, err)
	assert.Equal(t, "Best Paper Award", entry.Title)

	_, err = engine.FindEntry(ctx, "alice", "Nobel Prize")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = engine.FindEntry(ctx, "bob", "Best Paper Award")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = engine.FindEntry(ctx, "alice", "!!!")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestScore_TieBreaksOnDisplayOrderThenID(t *testing.T) {
	a := &core.Entry{Id: 5, DisplayOrder: 2}
	b := &core.Entry{Id: 3, DisplayOrder: 2}
	c := &core.Entry{Id: 9, DisplayOrder: 1}
	entries := []*core.Entry{a, b, c}
	assert.Negative(t, rank(c, b))
	assert.Negative(t, rank(b, a))
	assert.Equal(t, 0, Score(entries[0]))
}
