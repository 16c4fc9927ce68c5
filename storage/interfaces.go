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

package storage

import (
	"context"

	"github.com/poiesic/vitae/core"
)

// Repository is the behavior shared by every repository.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// CVRepository manages the root of the ownership chain.
type CVRepository interface {
	Repository
	// GetOrCreateCV returns the user's CV, creating it on first use.
	// Thread-safe: concurrent callers for one user observe the same CV.
	GetOrCreateCV(ctx context.Context, userID core.UserID) (*core.CV, error)

	// FindCVByUser returns the user's CV.
	// Returns ErrNotFound if the user has none yet.
	FindCVByUser(ctx context.Context, userID core.UserID) (*core.CV, error)

	// GetCV retrieves a CV by ID.
	// Returns ErrNotFound if the CV doesn't exist.
	GetCV(ctx context.Context, id core.ID) (*core.CV, error)
}

// CategoryRepository manages categories within a CV.
type CategoryRepository interface {
	Repository
	// GetOrCreateCategory finds a category by case-insensitive name within the CV
	// or creates it at max(displayOrder)+1. The boolean reports whether it was created.
	// Display order assignment is serialized per CV.
	GetOrCreateCategory(ctx context.Context, cvID core.ID, name string) (*core.Category, bool, error)

	// FindCategoryByName finds a category by case-insensitive name.
	// Returns ErrNotFound if no category matches.
	FindCategoryByName(ctx context.Context, cvID core.ID, name string) (*core.Category, error)

	// GetCategory retrieves a single category by ID.
	// Returns ErrNotFound if the category doesn't exist.
	GetCategory(ctx context.Context, id core.ID) (*core.Category, error)

	// ListCategories returns a CV's categories ordered by display order.
	ListCategories(ctx context.Context, cvID core.ID) ([]*core.Category, error)
}

// EntryRepository manages canonical entries.
type EntryRepository interface {
	Repository
	// AddEntries adds entries, assigning IDs and the next display order within
	// each entry's category. Entries sharing a title key are permitted.
	AddEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error)

	// AddUniqueEntry adds an entry unless its CV already holds an entry with the
	// same title key, in which case it returns ErrDuplicateKey and the existing
	// entry. The check and the write happen in one transaction.
	AddUniqueEntry(ctx context.Context, entry *core.Entry) (*core.Entry, error)

	// UpdateEntries updates existing entries.
	// Updates the UpdatedAt timestamp automatically. Display order and
	// category are immutable through this call.
	// Returns ErrNotFound if any entry doesn't exist.
	UpdateEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error)

	// DeleteEntries removes entries by their IDs, along with their indices.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, ids ...core.ID) error

	// GetEntry retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.Entry, error)

	// ListEntriesByCategory returns a category's entries ordered by display order.
	ListEntriesByCategory(ctx context.Context, categoryID core.ID) ([]*core.Entry, error)

	// ListEntriesByCV returns every entry in a CV ordered by ID.
	ListEntriesByCV(ctx context.Context, cvID core.ID) ([]*core.Entry, error)

	// FindEntryByTitleKey returns the first entry in the CV with the given key.
	// Returns ErrNotFound if none exists.
	FindEntryByTitleKey(ctx context.Context, cvID core.ID, titleKey string) (*core.Entry, error)

	// CountEntries returns the number of entries in a category.
	CountEntries(ctx context.Context, categoryID core.ID) (int, error)
}

// PendingRepository manages staged entries awaiting review.
type PendingRepository interface {
	Repository
	// AddUniquePendingEntry stages an entry unless the user already has a
	// pending entry with the same title key, returning ErrDuplicateKey and the
	// existing entry in that case.
	AddUniquePendingEntry(ctx context.Context, entry *core.PendingEntry) (*core.PendingEntry, error)

	// MarkApproved flips the status flag of a pending entry. It is the only
	// in-place mutation a pending entry supports.
	// Returns ErrNotFound if the entry doesn't exist.
	MarkApproved(ctx context.Context, id core.ID) error

	// DeletePendingEntries removes staged entries by ID.
	// Returns ErrNotFound if any entry doesn't exist.
	DeletePendingEntries(ctx context.Context, ids ...core.ID) error

	// GetPendingEntry retrieves a staged entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetPendingEntry(ctx context.Context, id core.ID) (*core.PendingEntry, error)

	// ListPendingEntries returns a user's staged entries ordered by ID.
	ListPendingEntries(ctx context.Context, userID core.UserID) ([]*core.PendingEntry, error)

	// CountPendingEntries returns the number of staged entries for a user.
	CountPendingEntries(ctx context.Context, userID core.UserID) (int, error)
}

// ProfileRepository manages person-identity fields.
type ProfileRepository interface {
	Repository
	// GetProfile returns the user's profile.
	// Returns ErrNotFound if none has been saved.
	GetProfile(ctx context.Context, userID core.UserID) (*core.Profile, error)

	// SaveProfile creates or replaces the user's profile.
	SaveProfile(ctx context.Context, profile *core.Profile) error
}

// TaskRepository is the durable store behind the job runner.
type TaskRepository interface {
	Repository
	// AddTask persists a new task. The task ID must be set.
	// Returns ErrDuplicateKey if a task with the ID exists.
	AddTask(ctx context.Context, task *core.Task) error

	// UpdateTask replaces a stored task.
	// Returns ErrNotFound if the task doesn't exist.
	UpdateTask(ctx context.Context, task *core.Task) error

	// GetTask retrieves a task by ID.
	// Returns ErrNotFound if the task doesn't exist.
	GetTask(ctx context.Context, id string) (*core.Task, error)

	// ListTasks returns tasks in any of the given states, ordered by creation
	// time. With no states, returns every task.
	ListTasks(ctx context.Context, states ...core.TaskState) ([]*core.Task, error)

	// DeleteTasks removes tasks by ID. Missing IDs are ignored.
	DeleteTasks(ctx context.Context, ids ...string) error
}

// CreditRepository holds per-user balances and the debit log.
type CreditRepository interface {
	Repository
	// Balance returns the user's balance; users without an account have 0.
	Balance(ctx context.Context, userID core.UserID) (int64, error)

	// Grant adds amount to the user's balance and returns the new balance.
	Grant(ctx context.Context, userID core.UserID, amount int64) (int64, error)

	// Debit atomically subtracts debit.Amount and appends debit to the log,
	// filling in BalanceAfter and At. Returns core.ErrInsufficientCredits,
	// without writing, if the balance is lower than the amount.
	Debit(ctx context.Context, debit *core.CreditDebit) (int64, error)

	// ListDebits returns the user's debit log, oldest first.
	ListDebits(ctx context.Context, userID core.UserID) ([]*core.CreditDebit, error)
}
