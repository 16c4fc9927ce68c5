package main

import (
	"context"
	"testing"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		ok       bool
		category string
		entry    core.ExtractedEntry
	}{
		{line: "Talks|Keynote|2020|Berlin", ok: true, category: "Talks", entry: core.ExtractedEntry{Title: "Keynote", RawDateText: "2020", Location: "Berlin"}},
		{line: " Talks | Keynote ", ok: true, category: "Talks", entry: core.ExtractedEntry{Title: "Keynote"}},
		{line: "", ok: false},
		{line: "# comment", ok: false},
		{line: "Talks||2020", ok: false},
		{line: "|Keynote", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			category, entry, ok := parseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.entry, entry)
		})
	}
}

func TestSeedBatched(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	engine, err := reconcile.NewEngine(reconcile.Repositories{
		CVs:        repos.CVs,
		Categories: repos.Categories,
		Entries:    repos.Entries,
		Pending:    repos.Pending,
	})
	require.NoError(t, err)
	ctx := context.Background()

	summary, err := seedBatched(ctx, engine, "ada", linesFromSlice(sampleEntries), 3)
	require.NoError(t, err)
	assert.Equal(t, len(sampleEntries), summary.EntriesCreated)

	again, err := seedBatched(ctx, engine, "ada", linesFromSlice(sampleEntries), 4)
	require.NoError(t, err)
	assert.Zero(t, again.EntriesCreated)
	assert.Equal(t, len(sampleEntries), again.DuplicatesSkipped)

	cv, err := repos.CVs.FindCVByUser(ctx, "ada")
	require.NoError(t, err)
	categories, err := repos.Categories.ListCategories(ctx, cv.Id)
	require.NoError(t, err)
	assert.Len(t, categories, 5)

	missing, err := engine.MissingDates(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "On the calculus of finite differences", missing[0].Title)
}

func TestSeedRaw_KeepsDuplicates(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	engine, err := reconcile.NewEngine(reconcile.Repositories{
		CVs:        repos.CVs,
		Categories: repos.Categories,
		Entries:    repos.Entries,
		Pending:    repos.Pending,
	})
	require.NoError(t, err)
	ctx := context.Background()

	lines := []string{
		"Publications|On Graphs|2019|",
		"publications|The On-Graphs||",
		"Talks|Keynote|March 2020|Berlin",
		"# skipped",
	}
	n, err := seedRaw(ctx, repos, "ada", linesFromSlice(lines))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	groups, err := engine.ScanDuplicates(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "on graphs", groups[0].Key)
	assert.Len(t, groups[0].Remove, 1)

	keynote, err := engine.FindEntry(ctx, "ada", "keynote")
	require.NoError(t, err)
	assert.Equal(t, 2020, keynote.Date.Year())
	assert.Equal(t, "Berlin", keynote.Location)

	n, err = seedRaw(ctx, repos, "ada", linesFromSlice(nil))
	require.NoError(t, err)
	assert.Zero(t, n)
}
