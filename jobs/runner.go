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

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vitae/chunking"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage"
)

// StatusQueued is the status reported for a freshly submitted task.
const StatusQueued = "queued"

// cancelledReason is the failure reason of a cancelled task.
const cancelledReason = "cancelled"

// ChunkProcessor extracts and reconciles one chunk of a document.
// ingestion.Pipeline implements it.
type ChunkProcessor interface {
	ProcessChunk(ctx context.Context, userID core.UserID, chunk core.TextChunk, documentHash core.ID) (reconcile.Summary, error)
	ChunkSize() int
}

// SubmitRequest is a document to ingest in the background.
type SubmitRequest struct {
	UserID   core.UserID
	Text     string
	FileName string
}

// Handle identifies a submitted task.
type Handle struct {
	TaskID string
	Status string
	// Duplicate is set when an identical document from the same user was
	// already in flight and its task is returned instead.
	Duplicate bool
}

// Status is a task as reported to its owner.
type Status struct {
	TaskID        string
	State         core.TaskState
	Progress      int
	Attempts      int
	Result        *core.TaskResult
	FailureReason string
}

// Runner persists tasks and processes them on a worker pool.
type Runner struct {
	tasks     storage.TaskRepository
	credits   storage.CreditRepository
	processor ChunkProcessor
	config    Config
	logger    *slog.Logger
	now       func() time.Time

	pool *ants.Pool

	// mu guards claimed, which holds tasks handed to a worker. Claiming and
	// cancelling both happen under mu.
	mu      sync.Mutex
	claimed map[string]bool

	submitMu sync.Mutex

	wake    chan struct{}
	stopCh  chan struct{}
	running bool
	loops   sync.WaitGroup
	workers sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner) error

// WithConfig replaces the default configuration.
func WithConfig(config Config) Option {
	return func(r *Runner) error {
		if err := config.Validate(); err != nil {
			return err
		}
		r.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		r.logger = logger
		return nil
	}
}

// WithClock replaces time.Now for scheduling and retention.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) error {
		r.now = now
		return nil
	}
}

// NewRunner creates a job runner. Call Start to begin processing.
func NewRunner(tasks storage.TaskRepository, credits storage.CreditRepository, processor ChunkProcessor, opts ...Option) (*Runner, error) {
	if tasks == nil || credits == nil {
		return nil, ErrRepositoryRequired
	}
	if processor == nil {
		return nil, ErrProcessorRequired
	}
	r := &Runner{
		tasks:     tasks,
		credits:   credits,
		processor: processor,
		config:    DefaultConfig(),
		logger:    slog.Default(),
		now:       time.Now,
		claimed:   map[string]bool{},
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "jobs")

	pool, err := ants.NewPool(r.config.Workers, ants.WithPanicHandler(func(v any) {
		r.logger.Error("task panicked", "panic", v)
	}))
	if err != nil {
		return nil, err
	}
	r.pool = pool
	return r, nil
}

// Submit persists a task for req after checking the user can pay for at
// least one chunk. An identical document already in flight for the same user
// is not queued twice.
func (r *Runner) Submit(ctx context.Context, req SubmitRequest) (Handle, error) {
	if req.UserID == "" {
		return Handle{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrMissingUser)
	}
	if strings.TrimSpace(req.Text) == "" {
		return Handle{}, fmt.Errorf("%w: document %q has no text", core.ErrInvalidInput, req.FileName)
	}

	balance, err := r.credits.Balance(ctx, req.UserID)
	if err != nil {
		return Handle{}, fmt.Errorf("reading balance: %w", err)
	}
	if balance < r.config.CreditsPerChunk {
		return Handle{}, fmt.Errorf("%w: balance %d, need %d", core.ErrInsufficientCredits, balance, r.config.CreditsPerChunk)
	}

	chunks, err := chunking.Split(req.Text, r.processor.ChunkSize())
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}
	hash := core.IDFromContent(req.Text)

	r.submitMu.Lock()
	defer r.submitMu.Unlock()

	inFlight, err := r.tasks.ListTasks(ctx, core.TaskWaiting, core.TaskActive)
	if err != nil {
		return Handle{}, err
	}
	for _, t := range inFlight {
		if t.UserId == req.UserID && t.DocumentHash == hash {
			r.logger.Info("document already in flight", "user", req.UserID, "task", t.Id)
			return Handle{TaskID: t.Id, Status: StatusQueued, Duplicate: true}, nil
		}
	}

	now := r.now().UTC()
	task := &core.Task{
		Id:           uuid.NewString(),
		UserId:       req.UserID,
		FileName:     req.FileName,
		Text:         req.Text,
		DocumentHash: hash,
		State:        core.TaskWaiting,
		MaxAttempts:  r.config.MaxAttempts,
		NextRunAt:    now,
		ChunksTotal:  len(chunks),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.tasks.AddTask(ctx, task); err != nil {
		return Handle{}, fmt.Errorf("persisting task: %w", err)
	}
	r.logger.Info("task submitted", "user", req.UserID, "task", task.Id, "file", req.FileName, "chunks", task.ChunksTotal)
	r.signal()
	return Handle{TaskID: task.Id, Status: StatusQueued}, nil
}

// Status reports a task to its owner. Tasks of other users are reported as
// storage.ErrNotFound.
func (r *Runner) Status(ctx context.Context, userID core.UserID, taskID string) (Status, error) {
	task, err := r.ownedTask(ctx, userID, taskID)
	if err != nil {
		return Status{}, err
	}
	status := Status{
		TaskID:   task.Id,
		State:    task.State,
		Progress: task.Progress(),
		Attempts: task.Attempts,
	}
	switch task.State {
	case core.TaskCompleted:
		result := task.Result
		status.Result = &result
	case core.TaskFailed:
		status.FailureReason = task.FailureReason
	}
	return status, nil
}

// Cancel fails a waiting task so it is never started. Active tasks are not
// preempted.
func (r *Runner) Cancel(ctx context.Context, userID core.UserID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, err := r.ownedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if r.claimed[taskID] || task.State != core.TaskWaiting {
		return fmt.Errorf("%w: %s", ErrNotCancellable, task.State)
	}
	now := r.now().UTC()
	task.State = core.TaskFailed
	task.FailureReason = cancelledReason
	task.UpdatedAt = now
	task.FinishedAt = now
	if err := r.tasks.UpdateTask(ctx, task); err != nil {
		return err
	}
	r.logger.Info("task cancelled", "user", userID, "task", taskID)
	return nil
}

func (r *Runner) ownedTask(ctx context.Context, userID core.UserID, taskID string) (*core.Task, error) {
	task, err := r.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserId != userID {
		return nil, storage.ErrNotFound
	}
	return task, nil
}

// Start recovers tasks left active by a previous process and launches the
// dispatcher and janitor loops. It returns immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	if err := r.recover(ctx); err != nil {
		r.logger.Error("failed to recover active tasks", "err", err)
	}

	r.loops.Add(2)
	go r.dispatchLoop(ctx)
	go r.janitorLoop(ctx)
	return nil
}

// Stop halts dispatching, waits for tasks already running and releases the
// worker pool.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		r.pool.Release()
		return
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	r.loops.Wait()
	r.workers.Wait()
	r.pool.Release()
}

func (r *Runner) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// recover puts tasks that were active when the process died back in line.
func (r *Runner) recover(ctx context.Context) error {
	active, err := r.tasks.ListTasks(ctx, core.TaskActive)
	if err != nil {
		return err
	}
	for _, task := range active {
		task.State = core.TaskWaiting
		task.NextRunAt = r.now().UTC()
		task.UpdatedAt = task.NextRunAt
		if err := r.tasks.UpdateTask(ctx, task); err != nil {
			return err
		}
		r.logger.Warn("requeued interrupted task", "task", task.Id, "chunks_done", task.ChunksDone)
	}
	return nil
}

func (r *Runner) dispatchLoop(ctx context.Context) {
	defer r.loops.Done()
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		if err := r.dispatchDue(ctx); err != nil {
			r.logger.Error("dispatch failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
		case <-r.wake:
		}
	}
}

func (r *Runner) janitorLoop(ctx context.Context) {
	defer r.loops.Done()
	ticker := time.NewTicker(r.config.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if _, err := r.Prune(ctx); err != nil {
				r.logger.Error("prune failed", "err", err)
			}
		}
	}
}

// dispatchDue hands due waiting tasks to idle workers, oldest first.
func (r *Runner) dispatchDue(ctx context.Context) error {
	free := r.pool.Free()
	if free <= 0 {
		return nil
	}
	waiting, err := r.tasks.ListTasks(ctx, core.TaskWaiting)
	if err != nil {
		return err
	}
	now := r.now()
	for _, task := range waiting {
		if free == 0 {
			break
		}
		if task.NextRunAt.After(now) || !r.claim(task.Id) {
			continue
		}
		id := task.Id
		r.workers.Add(1)
		err := r.pool.Submit(func() {
			defer r.workers.Done()
			defer r.release(id)
			if err := r.run(ctx, id); err != nil {
				r.logger.Error("task run failed", "task", id, "err", err)
			}
		})
		if err != nil {
			r.workers.Done()
			r.release(id)
			return fmt.Errorf("submitting task %s: %w", id, err)
		}
		free--
	}
	return nil
}

func (r *Runner) claim(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed[id] {
		return false
	}
	r.claimed[id] = true
	return true
}

func (r *Runner) release(id string) {
	r.mu.Lock()
	delete(r.claimed, id)
	r.mu.Unlock()
}

// Prune deletes finished tasks past their retention and reports how many
// were removed.
func (r *Runner) Prune(ctx context.Context) (int, error) {
	finished, err := r.tasks.ListTasks(ctx, core.TaskCompleted, core.TaskFailed)
	if err != nil {
		return 0, err
	}
	now := r.now()
	var expired []string
	for _, task := range finished {
		retention := r.config.CompletedRetention
		if task.State == core.TaskFailed {
			retention = r.config.FailedRetention
		}
		if now.Sub(task.FinishedAt) > retention {
			expired = append(expired, task.Id)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}
	if err := r.tasks.DeleteTasks(ctx, expired...); err != nil {
		return 0, err
	}
	r.logger.Info("pruned tasks", "count", len(expired))
	return len(expired), nil
}
