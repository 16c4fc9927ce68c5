// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/inbox"
	"github.com/poiesic/vitae/jobs"
	"github.com/poiesic/vitae/textextract"
	"github.com/urfave/cli/v2"
)

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Queue a document for background ingestion",
		ArgsUsage: "FILE",
		Action:    submitAction,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Run the worker pool until the task finishes",
			},
		},
	}
}

func submitAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one file is required")
	}
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	path := c.Args().First()
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	text, err := textextract.New().Extract(ctx, content, textextract.MediaTypeFor(name))
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()
	runner, err := db.NewJobRunner()
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Stop()

	handle, err := runner.Submit(ctx, jobs.SubmitRequest{UserID: userID, Text: text, FileName: name})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "task %s %s", handle.TaskID, handle.Status)
	if handle.Duplicate {
		fmt.Fprint(c.App.Writer, " (already in flight)")
	}
	fmt.Fprintln(c.App.Writer)

	if !c.Bool("wait") {
		return nil
	}
	if err := runner.Start(ctx); err != nil {
		return err
	}
	status, err := waitForTask(ctx, runner, userID, handle.TaskID, time.Second)
	if err != nil {
		return err
	}
	printStatus(c.App.Writer, status)
	return nil
}

// waitForTask polls until the task reaches a terminal state.
func waitForTask(ctx context.Context, runner *jobs.Runner, userID core.UserID, taskID string, interval time.Duration) (jobs.Status, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		status, err := runner.Status(ctx, userID, taskID)
		if err != nil {
			return status, err
		}
		if status.State == core.TaskCompleted || status.State == core.TaskFailed {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the state of a queued task",
		ArgsUsage: "TASK_ID",
		Action:    statusAction,
	}
}

func statusAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one task id is required")
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
	runner, err := db.NewJobRunner()
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Stop()

	status, err := runner.Status(context.Background(), userID, c.Args().First())
	if err != nil {
		return err
	}
	printStatus(c.App.Writer, status)
	return nil
}

func printStatus(w io.Writer, status jobs.Status) {
	fmt.Fprintf(w, "task %s: %s, %d%% done, %d attempts\n", status.TaskID, status.State, status.Progress, status.Attempts)
	if status.FailureReason != "" {
		fmt.Fprintf(w, "  failure: %s\n", status.FailureReason)
	}
	if r := status.Result; r != nil {
		fmt.Fprintf(w, "  %d categories, %d created, %d updated, %d duplicates, %d chunks failed\n",
			r.CategoriesFound, r.EntriesCreated, r.EntriesUpdated, r.DuplicatesSkipped, r.ChunksFailed)
		if r.CreditsExhausted {
			fmt.Fprintln(w, "  stopped early: credits exhausted")
		}
	}
}

func cancelCommand() *cli.Command {
	return &cli.Command{
		Name:      "cancel",
		Usage:     "Cancel a task that has not started",
		ArgsUsage: "TASK_ID",
		Action:    cancelAction,
	}
}

func cancelAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one task id is required")
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
	runner, err := db.NewJobRunner()
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Stop()

	if err := runner.Cancel(context.Background(), userID, c.Args().First()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "task %s cancelled\n", c.Args().First())
	return nil
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Run the worker pool, queueing files dropped into an inbox directory",
		Action: watchAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "inbox",
				Usage: "Directory to watch; without it only already queued tasks are processed",
			},
			&cli.DurationFlag{
				Name:  "settle",
				Usage: "Quiet period before a changed file is queued",
				Value: inbox.DefaultSettle,
			},
		},
	}
}

func watchAction(c *cli.Context) error {
	dir := c.String("inbox")
	var userID core.UserID
	if dir != "" {
		var err error
		if userID, err = requireUser(c); err != nil {
			return err
		}
	}
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()
	runner, err := db.NewJobRunner()
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runner.Start(ctx); err != nil {
		return err
	}

	if dir == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := inbox.NewWatcher(dir, userID, runner, inbox.WithSettle(c.Duration("settle")))
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
