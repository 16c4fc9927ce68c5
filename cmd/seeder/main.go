package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/vitae"
	"github.com/poiesic/vitae/ai/mock"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/dates"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage/badger"
)

// Seed lines are "category|title|date|location"; date and location may be
// empty.
var sampleEntries = []string{
	"Publications|Notes on the Analytical Engine|1843|London",
	"Publications|Sketch of the Analytical Engine invented by Charles Babbage|1842|",
	"Publications|On the calculus of finite differences||",
	"Talks|Lecture on mechanical computation|June 1844|Royal Society",
	"Talks|Poetical science and the imagination|1841|",
	"Education|Private tutoring in mathematics with Augustus De Morgan|1840|London",
	"Education|Studies in astronomy and music|1829|",
	"Awards|Honorary fellowship|1845|",
	"Service|Correspondence with Michael Faraday|1844|",
	"Service|Translation of Menabrea's memoir|1842|Geneva",
}

var (
	dbPath       = flag.String("db", "./vitae_db", "database directory")
	userFlag     = flag.String("user", "demo", "user to seed")
	seedFileName = flag.String("src", "", "file of seed entries")
	credits      = flag.Int64("credits", 0, "credits to grant the user")
	raw          = flag.Bool("raw", false, "store entries verbatim, without deduplication")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// parseLine turns a seed line into a category name and entry.
func parseLine(line string) (string, core.ExtractedEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", core.ExtractedEntry{}, false
	}
	fields := strings.Split(line, "|")
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	category := strings.TrimSpace(fields[0])
	entry := core.ExtractedEntry{
		Title:       strings.TrimSpace(fields[1]),
		RawDateText: strings.TrimSpace(fields[2]),
		Location:    strings.TrimSpace(fields[3]),
	}
	if category == "" || entry.Title == "" {
		return "", core.ExtractedEntry{}, false
	}
	return category, entry, true
}

// seedBatched reconciles seed entries into the user's CV in batches.
func seedBatched(ctx context.Context, engine *reconcile.Engine, userID core.UserID, source iter.Seq[string], batchSize int) (reconcile.Summary, error) {
	var total reconcile.Summary
	opts := reconcile.Options{
		Target:       reconcile.TargetCanonical,
		AugmentDates: true,
		Provenance:   core.Provenance{Source: core.SourceDocumentImport},
	}

	batch := make(map[string][]core.ExtractedEntry)
	var order []string
	count := 0
	flush := func() error {
		categories := make([]core.ExtractedCategory, 0, len(order))
		for _, name := range order {
			categories = append(categories, core.ExtractedCategory{Name: name, Entries: batch[name]})
		}
		summary, err := engine.Reconcile(ctx, userID, categories, opts)
		if err != nil {
			return err
		}
		total.Add(summary)
		clear(batch)
		order = order[:0]
		count = 0
		return nil
	}

	for line := range source {
		name, entry, ok := parseLine(line)
		if !ok {
			continue
		}
		if _, seen := batch[name]; !seen {
			order = append(order, name)
		}
		batch[name] = append(batch[name], entry)
		count++
		if count == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	// Process any remaining entries
	if count > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

// seedRaw stores seed entries as given, duplicates included, the way a legacy
// CV would arrive. It is how a store ends up needing a duplicate scan.
func seedRaw(ctx context.Context, repos *badger.Repositories, userID core.UserID, source iter.Seq[string]) (int, error) {
	cv, err := repos.CVs.GetOrCreateCV(ctx, userID)
	if err != nil {
		return 0, err
	}
	categoryIDs := map[string]core.ID{}
	var entries []*core.Entry
	for line := range source {
		name, extracted, ok := parseLine(line)
		if !ok {
			continue
		}
		categoryID, ok := categoryIDs[strings.ToLower(name)]
		if !ok {
			category, _, err := repos.Categories.GetOrCreateCategory(ctx, cv.Id, name)
			if err != nil {
				return 0, err
			}
			categoryID = category.Id
			categoryIDs[strings.ToLower(name)] = categoryID
		}
		entries = append(entries, &core.Entry{
			CategoryId: categoryID,
			Title:      extracted.Title,
			TitleKey:   reconcile.TitleKey(extracted.Title),
			Location:   extracted.Location,
			Date:       dates.Normalize(extracted.RawDateText, extracted.Title, ""),
			Provenance: core.Provenance{Source: core.SourceManual, ImportedAt: time.Now().UTC()},
		})
	}
	if len(entries) == 0 {
		return 0, nil
	}
	added, err := repos.Entries.AddEntries(ctx, entries...)
	return len(added), err
}

func main() {
	flag.Parse()

	// Seeding never calls the completion service.
	db, err := vitae.NewDatabase(*dbPath, vitae.WithProvider(mock.NewMockProvider()))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	userID := core.UserID(*userFlag)

	// Determine source of seed data
	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(sampleEntries)
	}

	if *raw {
		n, err := seedRaw(ctx, db.Repositories(), userID, source)
		if err != nil {
			panic(err)
		}
		fmt.Printf("seeded %s: %d stored verbatim\n", userID, n)
	} else {
		summary, err := seedBatched(ctx, db.Engine(), userID, source, 5)
		if err != nil {
			panic(err)
		}
		fmt.Printf("seeded %s: %d created, %d updated, %d duplicates\n",
			userID, summary.EntriesCreated, summary.EntriesUpdated, summary.DuplicatesSkipped)
	}

	if *credits > 0 {
		balance, err := db.Repositories().Credits.Grant(ctx, userID, *credits)
		if err != nil {
			panic(err)
		}
		fmt.Printf("balance: %d\n", balance)
	}
}
