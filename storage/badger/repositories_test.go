package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func toUint64(ids []core.ID) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out
}

func newTestCategory(t *testing.T, repos *Repositories, user core.UserID, name string) (*core.CV, *core.Category) {
	t.Helper()
	ctx := context.Background()
	cv, err := repos.CVs.GetOrCreateCV(ctx, user)
	require.NoError(t, err)
	category, _, err := repos.Categories.GetOrCreateCategory(ctx, cv.Id, name)
	require.NoError(t, err)
	return cv, category
}

func TestCVRepository_GetOrCreate(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, err := repos.CVs.FindCVByUser(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	first, err := repos.CVs.GetOrCreateCV(ctx, "alice")
	require.NoError(t, err)
	second, err := repos.CVs.GetOrCreateCV(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	other, err := repos.CVs.GetOrCreateCV(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, first.Id, other.Id)

	found, err := repos.CVs.GetCV(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, core.UserID("alice"), found.UserId)

	_, err = repos.CVs.GetOrCreateCV(ctx, "")
	assert.ErrorIs(t, err, core.ErrMissingUser)
}

func TestCVRepository_ConcurrentCreateYieldsOneCV(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]core.ID, 10)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cv, err := repos.CVs.GetOrCreateCV(ctx, "carol")
			if assert.NoError(t, err) {
				ids[i] = cv.Id
			}
		}()
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestCategoryRepository_CaseInsensitiveAndOrdered(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	cv, err := repos.CVs.GetOrCreateCV(ctx, "alice")
	require.NoError(t, err)

	edu, created, err := repos.Categories.GetOrCreateCategory(ctx, cv.Id, "Education")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, edu.DisplayOrder)

	again, created, err := repos.Categories.GetOrCreateCategory(ctx, cv.Id, "  education ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, edu.Id, again.Id)

	pubs, created, err := repos.Categories.GetOrCreateCategory(ctx, cv.Id, "Publications")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, pubs.DisplayOrder)

	list, err := repos.Categories.ListCategories(ctx, cv.Id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Education", list[0].Name)
	assert.Equal(t, "Publications", list[1].Name)

	found, err := repos.Categories.FindCategoryByName(ctx, cv.Id, "PUBLICATIONS")
	require.NoError(t, err)
	assert.Equal(t, pubs.Id, found.Id)

	_, _, err = repos.Categories.GetOrCreateCategory(ctx, cv.Id, "   ")
	assert.ErrorIs(t, err, core.ErrEmptyCategoryName)
}

func TestEntryRepository_DisplayOrderUniqueUnderConcurrency(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	_, category := newTestCategory(t, repos, "alice", "Talks")

	const n = 25
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Entries.AddEntries(ctx, &core.Entry{
				CategoryId: category.Id,
				Title:      fmt.Sprintf("Talk %d", i),
				TitleKey:   fmt.Sprintf("talk %d", i),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := repos.Entries.ListEntriesByCategory(ctx, category.Id)
	require.NoError(t, err)
	require.Len(t, entries, n)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.DisplayOrder)
	}

	count, err := repos.Entries.CountEntries(ctx, category.Id)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestEntryRepository_AddUniqueEntryGuardsTitleKey(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	cv, category := newTestCategory(t, repos, "alice", "Awards")

	first, err := repos.Entries.AddUniqueEntry(ctx, &core.Entry{CategoryId: category.Id, Title: "Best Paper", TitleKey: "best paper"})
	require.NoError(t, err)

	existing, err := repos.Entries.AddUniqueEntry(ctx, &core.Entry{CategoryId: category.Id, Title: "The Best Paper!", TitleKey: "best paper"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	require.NotNil(t, existing)
	assert.Equal(t, first.Id, existing.Id)

	found, err := repos.Entries.FindEntryByTitleKey(ctx, cv.Id, "best paper")
	require.NoError(t, err)
	assert.Equal(t, first.Id, found.Id)

	all, err := repos.Entries.ListEntriesByCV(ctx, cv.Id)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEntryRepository_ConcurrentUniqueAddsKeepOne(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	cv, category := newTestCategory(t, repos, "alice", "Grants")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repos.Entries.AddUniqueEntry(ctx, &core.Entry{CategoryId: category.Id, Title: "NSF Career", TitleKey: "nsf career"})
		}()
	}
	wg.Wait()

	all, err := repos.Entries.ListEntriesByCV(ctx, cv.Id)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEntryRepository_UpdateAndDelete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	cv, category := newTestCategory(t, repos, "alice", "Education")

	added, err := repos.Entries.AddEntries(ctx, &core.Entry{CategoryId: category.Id, Title: "PhD", TitleKey: "phd"})
	require.NoError(t, err)
	entry := added[0]

	updated := *entry
	updated.Title = "PhD in Physics"
	updated.TitleKey = "phd in physics"
	updated.DisplayOrder = 99
	updated.Date = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = repos.Entries.UpdateEntries(ctx, &updated)
	require.NoError(t, err)
	assert.Equal(t, entry.DisplayOrder, updated.DisplayOrder)

	_, err = repos.Entries.FindEntryByTitleKey(ctx, cv.Id, "phd")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	found, err := repos.Entries.FindEntryByTitleKey(ctx, cv.Id, "phd in physics")
	require.NoError(t, err)
	assert.True(t, found.HasDate())

	require.NoError(t, repos.Entries.DeleteEntries(ctx, entry.Id))
	_, err = repos.Entries.GetEntry(ctx, entry.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repos.Entries.FindEntryByTitleKey(ctx, cv.Id, "phd in physics")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repos.Entries.DeleteEntries(ctx, entry.Id), storage.ErrNotFound)

	_, err = repos.Entries.AddEntries(ctx, &core.Entry{CategoryId: 12345, Title: "Orphan"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPendingRepository_Lifecycle(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	pending := &core.PendingEntry{
		UserId:            "alice",
		SuggestedCategory: "Publications",
		Title:             "On Things",
		TitleKey:          "on things",
		Provenance:        core.Provenance{Source: core.SourceEmail},
	}
	_, err := repos.Pending.AddUniquePendingEntry(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, core.PendingStatusPending, pending.Status)

	dup, err := repos.Pending.AddUniquePendingEntry(ctx, &core.PendingEntry{
		UserId: "alice", Title: "On things", TitleKey: "on things",
		Provenance: core.Provenance{Source: core.SourceEmail},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.Equal(t, pending.Id, dup.Id)

	_, err = repos.Pending.AddUniquePendingEntry(ctx, &core.PendingEntry{
		UserId: "bob", Title: "On things", TitleKey: "on things",
		Provenance: core.Provenance{Source: core.SourceEmail},
	})
	require.NoError(t, err)

	count, err := repos.Pending.CountPendingEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repos.Pending.MarkApproved(ctx, pending.Id))
	got, err := repos.Pending.GetPendingEntry(ctx, pending.Id)
	require.NoError(t, err)
	assert.Equal(t, core.PendingStatusApproved, got.Status)

	require.NoError(t, repos.Pending.DeletePendingEntries(ctx, pending.Id))
	list, err := repos.Pending.ListPendingEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProfileRepository(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, err := repos.Profiles.GetProfile(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, repos.Profiles.SaveProfile(ctx, &core.Profile{UserId: "alice", Name: "Alice Liddell"}))
	profile, err := repos.Profiles.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", profile.Name)
	assert.False(t, profile.UpdatedAt.IsZero())
}

func TestTaskRepository(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	base := time.Now().UTC()
	t1 := &core.Task{Id: "t1", UserId: "alice", State: core.TaskWaiting, CreatedAt: base}
	t2 := &core.Task{Id: "t2", UserId: "alice", State: core.TaskActive, CreatedAt: base.Add(time.Second)}
	require.NoError(t, repos.Tasks.AddTask(ctx, t1))
	require.NoError(t, repos.Tasks.AddTask(ctx, t2))
	assert.ErrorIs(t, repos.Tasks.AddTask(ctx, t1), storage.ErrDuplicateKey)

	waiting, err := repos.Tasks.ListTasks(ctx, core.TaskWaiting)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "t1", waiting[0].Id)

	t1.State = core.TaskCompleted
	t1.ChunksDone = 3
	require.NoError(t, repos.Tasks.UpdateTask(ctx, t1))
	got, err := repos.Tasks.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, core.TaskCompleted, got.State)
	assert.Equal(t, 3, got.ChunksDone)

	all, err := repos.Tasks.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all[0].Id)

	require.NoError(t, repos.Tasks.DeleteTasks(ctx, "t1", "missing"))
	_, err = repos.Tasks.GetTask(ctx, "t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repos.Tasks.UpdateTask(ctx, t1), storage.ErrNotFound)
}

func TestCreditRepository(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	balance, err := repos.Credits.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance)

	balance, err = repos.Credits.Grant(ctx, "alice", 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, balance)

	for i := range 3 {
		balance, err = repos.Credits.Debit(ctx, &core.CreditDebit{UserId: "alice", TaskId: "t", ChunkIndex: i, Amount: 1})
		require.NoError(t, err)
	}
	assert.Zero(t, balance)

	_, err = repos.Credits.Debit(ctx, &core.CreditDebit{UserId: "alice", TaskId: "t", ChunkIndex: 3, Amount: 1})
	assert.ErrorIs(t, err, core.ErrInsufficientCredits)

	debits, err := repos.Credits.ListDebits(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, debits, 3)
	assert.EqualValues(t, 2, debits[0].BalanceAfter)
	assert.EqualValues(t, 0, debits[2].BalanceAfter)
	assert.Equal(t, 2, debits[2].ChunkIndex)
}

func TestCreditRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, err := repos.Credits.Grant(ctx, "alice", 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Credits.Debit(ctx, &core.CreditDebit{UserId: "alice", ChunkIndex: i, Amount: 1})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	balance, err := repos.Credits.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance)
}
