package badger

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) *TaskRepository {
	return &TaskRepository{
		backend: backend,
	}
}

// Close releases resources. TaskRepository has no resources to release.
func (r *TaskRepository) Close() error {
	return nil
}

// AddTask persists a new task.
func (r *TaskRepository) AddTask(ctx context.Context, task *core.Task) error {
	if task.Id == "" {
		return storage.ErrInvalidQuery
	}
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		key := makeTaskKey(task.Id)
		existing, err := readValue(tx, key, storage.UnmarshalTask)
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}
		now := time.Now().UTC()
		if task.CreatedAt.IsZero() {
			task.CreatedAt = now
		}
		task.UpdatedAt = now
		return tx.Set(key, storage.MarshalTask(task))
	})
}

// UpdateTask replaces a stored task.
func (r *TaskRepository) UpdateTask(ctx context.Context, task *core.Task) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		key := makeTaskKey(task.Id)
		existing, err := readValue(tx, key, storage.UnmarshalTask)
		if err != nil {
			return err
		}
		if existing == nil {
			return storage.ErrNotFound
		}
		task.UpdatedAt = time.Now().UTC()
		return tx.Set(key, storage.MarshalTask(task))
	})
}

// GetTask retrieves a task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (*core.Task, error) {
	var result *core.Task
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeTaskKey(id), storage.UnmarshalTask)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// ListTasks returns tasks in any of the given states, oldest first.
func (r *TaskRepository) ListTasks(ctx context.Context, states ...core.TaskState) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		tasks, err := scanDecoded(tx, scanKey(taskPrefix), storage.UnmarshalTask)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if len(states) == 0 || slices.Contains(states, task.State) {
				results = append(results, task)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b *core.Task) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.Id, b.Id))
	})
	return results, nil
}

// DeleteTasks removes tasks by ID. Missing IDs are ignored.
func (r *TaskRepository) DeleteTasks(ctx context.Context, ids ...string) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeTaskKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}
