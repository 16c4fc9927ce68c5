package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/poiesic/vitae/core"
	"github.com/urfave/cli/v2"
)

func pendingCommand() *cli.Command {
	return &cli.Command{
		Name:  "pending",
		Usage: "Review entries staged from emails and search results",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List staged entries",
				Action: pendingListAction,
			},
			{
				Name:      "approve",
				Usage:     "Move a staged entry into a category, given by id or name",
				ArgsUsage: "PENDING_ID CATEGORY",
				Action:    pendingApproveAction,
			},
			{
				Name:      "reject",
				Usage:     "Discard staged entries",
				ArgsUsage: "PENDING_ID...",
				Action:    pendingRejectAction,
			},
			{
				Name:   "approve-all",
				Usage:  "Approve every staged entry into its suggested category",
				Action: pendingApproveAllAction,
			},
		},
	}
}

func parseID(s string) (core.ID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, core.ErrInvalidInput)
	}
	return core.ID(id), nil
}

func pendingListAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()
	queue, err := db.NewReviewQueue()
	if err != nil {
		return err
	}

	pending, err := queue.List(context.Background(), userID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(c.App.Writer, "No pending entries")
		return nil
	}
	for _, p := range pending {
		date := "undated"
		if !p.Date.IsZero() {
			date = p.Date.Format("2006-01-02")
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\t%s\t%s\n", p.Id, p.SuggestedCategory, date, p.Title, p.Provenance.Source)
	}
	return nil
}

func pendingApproveAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("a pending id and a category are required")
	}
	pendingID, err := parseID(c.Args().Get(0))
	if err != nil {
		return err
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
	queue, err := db.NewReviewQueue()
	if err != nil {
		return err
	}

	ctx := context.Background()
	category := c.Args().Get(1)
	var entry *core.Entry
	if categoryID, parseErr := parseID(category); parseErr == nil {
		entry, err = queue.Approve(ctx, userID, pendingID, categoryID)
	} else {
		entry, err = queue.ApproveByName(ctx, userID, pendingID, category)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "approved as entry %d\n", entry.Id)
	return nil
}

func pendingRejectAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one pending id is required")
	}
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	ids := make([]core.ID, 0, c.NArg())
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
	queue, err := db.NewReviewQueue()
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, id := range ids {
		if err := queue.Reject(ctx, userID, id); err != nil {
			return fmt.Errorf("rejecting %d: %w", id, err)
		}
	}
	fmt.Fprintf(c.App.Writer, "rejected %d entries\n", len(ids))
	return nil
}

func pendingApproveAllAction(c *cli.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()
	queue, err := db.NewReviewQueue()
	if err != nil {
		return err
	}

	result, err := queue.ApproveAll(context.Background(), userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "approved %d entries\n", result.Approved)
	for _, f := range result.Failures {
		fmt.Fprintf(c.App.Writer, "  %d: %v\n", f.PendingID, f.Err)
	}
	return nil
}
