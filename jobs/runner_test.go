package jobs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage"
	"github.com/poiesic/vitae/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three chunks at a chunk size of 20.
const threeSections = "AAAA section one\n\nBBBB section two\n\nCCCC section three"

type testProcessor struct {
	mu     sync.Mutex
	seen   []int
	failAt map[int]int // chunk index -> remaining failures
	err    error
}

func (p *testProcessor) ChunkSize() int { return 20 }

func (p *testProcessor) ProcessChunk(ctx context.Context, userID core.UserID, chunk core.TextChunk, hash core.ID) (reconcile.Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, chunk.Index)
	if p.failAt[chunk.Index] > 0 {
		p.failAt[chunk.Index]--
		if p.err != nil {
			return reconcile.Summary{}, p.err
		}
		return reconcile.Summary{}, fmt.Errorf("%w: upstream timeout", core.ErrTransient)
	}
	return reconcile.Summary{CategoriesFound: 1, EntriesCreated: 2}, nil
}

func (p *testProcessor) chunks() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.seen...)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	runner    *Runner
	repos     *badger.Repositories
	processor *testProcessor
	clock     *testClock
}

func newFixture(t *testing.T, credits int64) *fixture {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	if credits > 0 {
		_, err = repos.Credits.Grant(context.Background(), "ada", credits)
		require.NoError(t, err)
	}

	config := DefaultConfig()
	config.BaseBackoff = time.Minute
	config.PollInterval = 10 * time.Millisecond

	f := &fixture{
		repos:     repos,
		processor: &testProcessor{failAt: map[int]int{}},
		clock:     &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.runner, err = NewRunner(repos.Tasks, repos.Credits, f.processor, WithConfig(config), WithClock(f.clock.Now))
	require.NoError(t, err)
	t.Cleanup(f.runner.Stop)
	return f
}

func (f *fixture) submit(t *testing.T) string {
	t.Helper()
	handle, err := f.runner.Submit(context.Background(), SubmitRequest{UserID: "ada", Text: threeSections, FileName: "cv.txt"})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, handle.Status)
	return handle.TaskID
}

func (f *fixture) task(t *testing.T, id string) *core.Task {
	t.Helper()
	task, err := f.repos.Tasks.GetTask(context.Background(), id)
	require.NoError(t, err)
	return task
}

func TestConfig_Backoff(t *testing.T) {
	config := Config{BaseBackoff: time.Second}
	assert.Equal(t, time.Second, config.Backoff(1))
	assert.Equal(t, 2*time.Second, config.Backoff(2))
	assert.Equal(t, 8*time.Second, config.Backoff(4))
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Workers = 0
	assert.Error(t, bad.Validate())
}

func TestSubmit_Admission(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: threeSections})
	assert.ErrorIs(t, err, core.ErrInsufficientCredits)

	tasks, err := f.repos.Tasks.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "no task is created without credits")

	_, err = f.runner.Submit(ctx, SubmitRequest{UserID: "", Text: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: "  "})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSubmit_DeduplicatesInFlight(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	first := f.submit(t)
	second, err := f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: threeSections})
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first, second.TaskID)

	task := f.task(t, first)
	assert.Equal(t, core.TaskWaiting, task.State)
	assert.Equal(t, 3, task.ChunksTotal)
	assert.Equal(t, core.IDFromContent(threeSections), task.DocumentHash)

	// A finished task no longer blocks a resubmission.
	require.NoError(t, f.runner.run(ctx, first))
	third, err := f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: threeSections})
	require.NoError(t, err)
	assert.False(t, third.Duplicate)
	assert.NotEqual(t, first, third.TaskID)
}

func TestRun_CompletesAndDebitsEveryChunk(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	id := f.submit(t)

	require.NoError(t, f.runner.run(ctx, id))

	task := f.task(t, id)
	assert.Equal(t, core.TaskCompleted, task.State)
	assert.Equal(t, 3, task.ChunksDone)
	assert.Equal(t, 100, task.Progress())
	assert.Equal(t, 6, task.Result.EntriesCreated)
	assert.False(t, task.Result.CreditsExhausted)
	assert.Equal(t, []int{0, 1, 2}, f.processor.chunks())

	balance, err := f.repos.Credits.Balance(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, int64(7), balance)

	debits, err := f.repos.Credits.ListDebits(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, debits, 3)
	for i, d := range debits {
		assert.Equal(t, id, d.TaskId)
		assert.Equal(t, i, d.ChunkIndex)
	}
}

func TestRun_PartialWhenCreditsRunOut(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	id := f.submit(t)

	require.NoError(t, f.runner.run(ctx, id))

	task := f.task(t, id)
	assert.Equal(t, core.TaskCompleted, task.State)
	assert.Equal(t, 1, task.ChunksDone)
	assert.True(t, task.Result.CreditsExhausted)
	assert.Equal(t, []int{0}, f.processor.chunks())

	status, err := f.runner.Status(ctx, "ada", id)
	require.NoError(t, err)
	assert.Equal(t, 33, status.Progress)
	require.NotNil(t, status.Result)
	assert.True(t, status.Result.CreditsExhausted)
}

func TestRun_RetryResumesWithoutDoubleDebit(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.processor.failAt[1] = 1
	id := f.submit(t)

	require.NoError(t, f.runner.run(ctx, id))
	task := f.task(t, id)
	assert.Equal(t, core.TaskWaiting, task.State)
	assert.Equal(t, 1, task.Attempts)
	assert.Equal(t, 1, task.ChunksDone)
	assert.True(t, f.clock.Now().Add(time.Minute).Equal(task.NextRunAt))

	require.NoError(t, f.runner.run(ctx, id))
	task = f.task(t, id)
	assert.Equal(t, core.TaskCompleted, task.State)
	assert.Equal(t, 2, task.Attempts)
	assert.Equal(t, []int{0, 1, 1, 2}, f.processor.chunks())

	debits, err := f.repos.Credits.ListDebits(ctx, "ada")
	require.NoError(t, err)
	assert.Len(t, debits, 3)
}

func TestRun_FailsAfterMaxAttempts(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.processor.failAt[0] = 100
	id := f.submit(t)

	for i := 0; i < DefaultConfig().MaxAttempts; i++ {
		require.NoError(t, f.runner.run(ctx, id))
	}
	task := f.task(t, id)
	assert.Equal(t, core.TaskFailed, task.State)
	assert.Contains(t, task.FailureReason, "upstream timeout")

	status, err := f.runner.Status(ctx, "ada", id)
	require.NoError(t, err)
	assert.Nil(t, status.Result)
	assert.Contains(t, status.FailureReason, "upstream timeout")
	assert.Equal(t, 3, task.Attempts)
}

func TestRun_PermanentErrorFailsImmediately(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.processor.failAt[0] = 1
	f.processor.err = fmt.Errorf("%w: bad chunk", core.ErrInvalidInput)
	id := f.submit(t)

	require.NoError(t, f.runner.run(ctx, id))
	task := f.task(t, id)
	assert.Equal(t, core.TaskFailed, task.State)
	assert.Equal(t, 1, task.Attempts)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	id := f.submit(t)

	assert.ErrorIs(t, f.runner.Cancel(ctx, "bob", id), storage.ErrNotFound)
	require.NoError(t, f.runner.Cancel(ctx, "ada", id))

	status, err := f.runner.Status(ctx, "ada", id)
	require.NoError(t, err)
	assert.Equal(t, core.TaskFailed, status.State)
	assert.Equal(t, cancelledReason, status.FailureReason)

	// A cancelled task is never started.
	require.NoError(t, f.runner.run(ctx, id))
	assert.Empty(t, f.processor.chunks())
	assert.ErrorIs(t, f.runner.Cancel(ctx, "ada", id), ErrNotCancellable)

	// Claimed tasks cannot be cancelled either.
	other, err := f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: "another document"})
	require.NoError(t, err)
	require.True(t, f.runner.claim(other.TaskID))
	assert.ErrorIs(t, f.runner.Cancel(ctx, "ada", other.TaskID), ErrNotCancellable)
}

func TestStatus_OtherUser(t *testing.T) {
	f := newFixture(t, 10)
	id := f.submit(t)

	_, err := f.runner.Status(context.Background(), "bob", id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = f.runner.Status(context.Background(), "ada", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPrune(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	done := f.submit(t)
	require.NoError(t, f.runner.run(ctx, done))
	cancelled, err := f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: "short document"})
	require.NoError(t, err)
	require.NoError(t, f.runner.Cancel(ctx, "ada", cancelled.TaskID))

	f.clock.Advance(30 * time.Minute)
	removed, err := f.runner.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	f.clock.Advance(time.Hour)
	removed, err = f.runner.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = f.repos.Tasks.GetTask(ctx, done)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	f.clock.Advance(7 * 24 * time.Hour)
	removed, err = f.runner.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestStart_ProcessesSubmittedTasks(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	// A task left active by a crashed process is requeued on start.
	id := f.submit(t)
	task := f.task(t, id)
	task.State = core.TaskActive
	require.NoError(t, f.repos.Tasks.UpdateTask(ctx, task))

	require.NoError(t, f.runner.Start(ctx))
	assert.ErrorIs(t, f.runner.Start(ctx), ErrAlreadyStarted)

	require.Eventually(t, func() bool {
		status, err := f.runner.Status(ctx, "ada", id)
		return err == nil && status.State == core.TaskCompleted
	}, 5*time.Second, 10*time.Millisecond)

	second, err := f.runner.Submit(ctx, SubmitRequest{UserID: "ada", Text: "a second document"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		status, err := f.runner.Status(ctx, "ada", second.TaskID)
		return err == nil && status.State == core.TaskCompleted
	}, 5*time.Second, 10*time.Millisecond)

	f.runner.Stop()
}
