package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/redate"
	"github.com/poiesic/vitae/storage"
	"github.com/urfave/cli/v2"
)

func duplicatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "duplicates",
		Usage: "Find and remove entries that share a title key",
		Subcommands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "List duplicate groups and the entry each would keep",
				Action: duplicatesScanAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete entries by id; with --all, every non-kept duplicate",
				ArgsUsage: "[ENTRY_ID...]",
				Action:    duplicatesDeleteAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every duplicate the scan would remove",
					},
				},
			},
		},
	}
}

func duplicatesScanAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	groups, err := db.Engine().ScanDuplicates(context.Background(), userID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(c.App.Writer, "No duplicates")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(c.App.Writer, "%q keep %d (%s)\n", g.Key, g.Keep.Id, g.Keep.Title)
		for _, e := range g.Remove {
			fmt.Fprintf(c.App.Writer, "  remove %d (%s)\n", e.Id, e.Title)
		}
	}
	return nil
}

func duplicatesDeleteAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if c.Bool("all") == (c.NArg() > 0) {
		return fmt.Errorf("pass either entry ids or --all")
	}
	var ids []core.ID
	for _, arg := range c.Args().Slice() {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	engine := db.Engine()
	if c.Bool("all") {
		groups, err := engine.ScanDuplicates(ctx, userID)
		if err != nil {
			return err
		}
		for _, g := range groups {
			for _, e := range g.Remove {
				ids = append(ids, e.Id)
			}
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(c.App.Writer, "No duplicates")
		return nil
	}
	result, err := engine.DeleteDuplicates(ctx, userID, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %d entries\n", len(result.Deleted))
	if len(result.Rejected) > 0 {
		fmt.Fprintf(c.App.Writer, "rejected %v\n", result.Rejected)
	}
	return nil
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Look up the entry a title would be deduplicated against",
		ArgsUsage: "TITLE",
		Action:    findAction,
	}
}

func findAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a title is required")
	}
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	title := strings.Join(c.Args().Slice(), " ")
	entry, err := db.Engine().FindEntry(context.Background(), userID, title)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(c.App.Writer, "No entry matches %q\n", title)
		return nil
	}
	if err != nil {
		return err
	}
	date := "undated"
	if entry.HasDate() {
		date = entry.Date.Format("2006-01-02")
	}
	fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", entry.Id, date, entry.Title)
	return nil
}

func missingDatesCommand() *cli.Command {
	return &cli.Command{
		Name:   "missing-dates",
		Usage:  "List entries without a date",
		Action: missingDatesAction,
	}
}

func missingDatesAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.Engine().MissingDates(context.Background(), userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "Every entry has a date")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(c.App.Writer, "%d\t%s\n", e.Id, e.Title)
	}
	return nil
}

func redateCommand() *cli.Command {
	return &cli.Command{
		Name:   "redate",
		Usage:  "Re-run date detection over entries without a date",
		Action: redateAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of entries to write in each batch",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N entries",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum retry attempts for failed writes",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
				Value: 100 * time.Millisecond,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report dates without writing them",
			},
		},
	}
}

func redateAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	cfg := &redate.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		DryRun:         c.Bool("dry-run"),
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if cfg.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()
	redater, err := db.NewRedater(cfg, os.Stderr)
	if err != nil {
		return err
	}

	result, err := redater.Run(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("re-dating failed: %w", err)
	}
	for _, e := range result.Dated {
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", e.Id, e.Date.Format("2006-01-02"), e.Title)
	}
	return nil
}

func creditsCommand() *cli.Command {
	return &cli.Command{
		Name:  "credits",
		Usage: "Manage the credits that pay for background ingestion",
		Subcommands: []*cli.Command{
			{
				Name:      "grant",
				Usage:     "Add credits to the user's balance",
				ArgsUsage: "AMOUNT",
				Action:    creditsGrantAction,
			},
			{
				Name:   "balance",
				Usage:  "Show the balance and debit log",
				Action: creditsBalanceAction,
			},
		},
	}
}

func creditsGrantAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one amount is required")
	}
	var amount int64
	if _, err := fmt.Sscan(c.Args().First(), &amount); err != nil || amount <= 0 {
		return fmt.Errorf("amount must be a positive integer: %w", core.ErrInvalidInput)
	}
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	balance, err := db.Repositories().Credits.Grant(context.Background(), userID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "balance: %d\n", balance)
	return nil
}

func creditsBalanceAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	credits := db.Repositories().Credits
	balance, err := credits.Balance(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "balance: %d\n", balance)
	debits, err := credits.ListDebits(ctx, userID)
	if err != nil {
		return err
	}
	for _, d := range debits {
		fmt.Fprintf(c.App.Writer, "  %s task %s chunk %d: -%d (%d)\n",
			d.At.Format(time.RFC3339), d.TaskId, d.ChunkIndex, d.Amount, d.BalanceAfter)
	}
	return nil
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "Print the user's CV",
		Action: showAction,
	}
}

func showAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	repos := db.Repositories()
	if profile, err := repos.Profiles.GetProfile(ctx, userID); err == nil {
		fmt.Fprintln(c.App.Writer, profile.Name)
		for _, line := range []string{profile.Institution, profile.Address, profile.Phone, profile.Website} {
			if line != "" {
				fmt.Fprintln(c.App.Writer, line)
			}
		}
		fmt.Fprintln(c.App.Writer)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	cv, err := repos.CVs.FindCVByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(c.App.Writer, "No CV yet")
		return nil
	}
	if err != nil {
		return err
	}
	categories, err := repos.Categories.ListCategories(ctx, cv.Id)
	if err != nil {
		return err
	}
	for _, category := range categories {
		fmt.Fprintf(c.App.Writer, "[%d] %s\n", category.Id, category.Name)
		entries, err := repos.Entries.ListEntriesByCategory(ctx, category.Id)
		if err != nil {
			return err
		}
		for _, e := range entries {
			date := "    "
			if e.HasDate() {
				date = e.Date.Format("2006")
			}
			fmt.Fprintf(c.App.Writer, "  %s  %s\n", date, e.Title)
		}
	}
	return nil
}
