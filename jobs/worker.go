package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/vitae/chunking"
	"github.com/poiesic/vitae/core"
)

// run executes one attempt of a task. Progress is persisted after every
// chunk, so a later attempt starts at the first chunk not yet done and no
// chunk is debited twice.
func (r *Runner) run(ctx context.Context, id string) error {
	task, err := r.tasks.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task.State != core.TaskWaiting {
		return nil
	}
	logger := r.logger.With("task", task.Id, "user", task.UserId)

	task.State = core.TaskActive
	task.Attempts++
	task.UpdatedAt = r.now().UTC()
	if err := r.tasks.UpdateTask(ctx, task); err != nil {
		return err
	}
	logger.Debug("task started", "attempt", task.Attempts, "chunks_done", task.ChunksDone)

	chunks, err := chunking.Split(task.Text, r.processor.ChunkSize())
	if err != nil {
		return r.finishFailed(ctx, task, err)
	}
	task.ChunksTotal = len(chunks)

	for i := task.ChunksDone; i < len(chunks); i++ {
		if err := ctx.Err(); err != nil {
			return r.retryOrFail(ctx, task, err)
		}

		balance, err := r.credits.Balance(ctx, task.UserId)
		if err != nil {
			return r.retryOrFail(ctx, task, fmt.Errorf("reading balance: %w", err))
		}
		if balance < r.config.CreditsPerChunk {
			logger.Warn("credits exhausted", "chunk", i, "balance", balance)
			task.Result.CreditsExhausted = true
			break
		}

		summary, err := r.processor.ProcessChunk(ctx, task.UserId, chunks[i], task.DocumentHash)
		if err != nil {
			logger.Warn("chunk failed", "chunk", i, "err", err)
			if permanent(err) {
				return r.finishFailed(ctx, task, err)
			}
			return r.retryOrFail(ctx, task, err)
		}

		exhausted := false
		if r.config.CreditsPerChunk > 0 {
			_, err = r.credits.Debit(ctx, &core.CreditDebit{
				UserId:     task.UserId,
				TaskId:     task.Id,
				ChunkIndex: i,
				Amount:     r.config.CreditsPerChunk,
			})
			switch {
			case errors.Is(err, core.ErrInsufficientCredits):
				// Another task drained the balance while this chunk ran. The
				// work is kept and the document stops here.
				exhausted = true
			case err != nil:
				return r.retryOrFail(ctx, task, fmt.Errorf("debiting chunk %d: %w", i, err))
			}
		}

		task.Result.CategoriesFound += summary.CategoriesFound
		task.Result.EntriesCreated += summary.EntriesCreated
		task.Result.EntriesUpdated += summary.EntriesUpdated
		task.Result.DuplicatesSkipped += summary.DuplicatesSkipped
		task.ChunksDone = i + 1
		task.UpdatedAt = r.now().UTC()
		if err := r.tasks.UpdateTask(ctx, task); err != nil {
			return err
		}
		if exhausted {
			logger.Warn("credits exhausted", "chunk", i)
			task.Result.CreditsExhausted = true
			break
		}
	}

	now := r.now().UTC()
	task.State = core.TaskCompleted
	task.UpdatedAt = now
	task.FinishedAt = now
	if err := r.tasks.UpdateTask(context.WithoutCancel(ctx), task); err != nil {
		return err
	}
	logger.Info("task completed",
		"chunks", task.ChunksDone,
		"total", task.ChunksTotal,
		"created", task.Result.EntriesCreated,
		"partial", task.Result.CreditsExhausted)
	return nil
}

// retryOrFail schedules the next attempt after backoff, or fails the task
// when its attempts are used up.
func (r *Runner) retryOrFail(ctx context.Context, task *core.Task, cause error) error {
	if task.Attempts >= task.MaxAttempts {
		return r.finishFailed(ctx, task, cause)
	}
	now := r.now().UTC()
	task.State = core.TaskWaiting
	task.NextRunAt = now.Add(r.config.Backoff(task.Attempts))
	task.UpdatedAt = now
	if err := r.tasks.UpdateTask(context.WithoutCancel(ctx), task); err != nil {
		return err
	}
	r.logger.Info("task will retry", "task", task.Id, "attempt", task.Attempts, "next_run", task.NextRunAt, "err", cause)
	return nil
}

func (r *Runner) finishFailed(ctx context.Context, task *core.Task, cause error) error {
	now := r.now().UTC()
	task.State = core.TaskFailed
	task.FailureReason = cause.Error()
	task.UpdatedAt = now
	task.FinishedAt = now
	if err := r.tasks.UpdateTask(context.WithoutCancel(ctx), task); err != nil {
		return err
	}
	r.logger.Error("task failed", "task", task.Id, "attempts", task.Attempts, "err", cause)
	return nil
}

// permanent reports whether err can never succeed on retry.
func permanent(err error) bool {
	return errors.Is(err, core.ErrInvalidInput) ||
		errors.Is(err, core.ErrUnsupportedMediaType) ||
		errors.Is(err, core.ErrMissingUser)
}
