package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/vitae/core"
	"github.com/urfave/cli/v2"
)

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Extract CV entries from documents and merge them into the CV",
		ArgsUsage: "FILE...",
		Action:    ingestAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "media-type",
				Usage: "Media type of the files (guessed from the extension when empty)",
			},
		},
	}
}

func ingestAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
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

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		summary, err := pipeline.IngestDocument(ctx, userID, core.RawDocument{
			Content:   content,
			MediaType: c.String("media-type"),
			FileName:  filepath.Base(path),
		})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		fmt.Fprintf(c.App.Writer, "%s: %d categories, %d created, %d updated, %d duplicates, %d/%d chunks failed\n",
			path, summary.CategoriesFound, summary.EntriesCreated, summary.EntriesUpdated,
			summary.DuplicatesSkipped, summary.ChunksFailed, summary.ChunksTotal)
	}
	return nil
}

func ingestEmailCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingest-email",
		Usage:     "Stage CV entries mentioned in RFC 822 messages for review",
		ArgsUsage: "FILE...",
		Action:    ingestEmailAction,
	}
}

func ingestEmailAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one message file is required")
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

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		message, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		summary, err := pipeline.IngestEmail(ctx, userID, message)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		fmt.Fprintf(c.App.Writer, "%s: %d staged, %d duplicates\n", path, summary.EntriesCreated, summary.DuplicatesSkipped)
	}
	return nil
}
