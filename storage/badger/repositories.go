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

package badger

import (
	"errors"
	"log/slog"
)

// Repositories bundles every repository over one backend.
type Repositories struct {
	Backend    *Backend
	CVs        *CVRepository
	Categories *CategoryRepository
	Entries    *EntryRepository
	Pending    *PendingRepository
	Profiles   *ProfileRepository
	Tasks      *TaskRepository
	Credits    *CreditRepository
}

// NewRepositories opens the database at path and wires every repository to it.
// Caller must Close the result when done.
func NewRepositories(path string, logger *slog.Logger) (*Repositories, error) {
	backend, err := OpenBackend(path, path == "", logger)
	if err != nil {
		return nil, err
	}
	repos, err := newRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return repos, nil
}

// NewMemoryRepositories creates in-memory repositories for testing.
func NewMemoryRepositories() (*Repositories, error) {
	return NewRepositories("", nil)
}

func newRepositories(backend *Backend) (*Repositories, error) {
	repos := &Repositories{
		Backend:  backend,
		Profiles: NewProfileRepository(backend),
		Tasks:    NewTaskRepository(backend),
	}
	var err error
	if repos.CVs, err = NewCVRepository(backend); err != nil {
		return nil, err
	}
	if repos.Categories, err = NewCategoryRepository(backend); err != nil {
		repos.releaseSequences()
		return nil, err
	}
	if repos.Entries, err = NewEntryRepository(backend); err != nil {
		repos.releaseSequences()
		return nil, err
	}
	if repos.Pending, err = NewPendingRepository(backend); err != nil {
		repos.releaseSequences()
		return nil, err
	}
	if repos.Credits, err = NewCreditRepository(backend); err != nil {
		repos.releaseSequences()
		return nil, err
	}
	return repos, nil
}

func (r *Repositories) releaseSequences() error {
	var errs []error
	if r.CVs != nil {
		errs = append(errs, r.CVs.Close())
	}
	if r.Categories != nil {
		errs = append(errs, r.Categories.Close())
	}
	if r.Entries != nil {
		errs = append(errs, r.Entries.Close())
	}
	if r.Pending != nil {
		errs = append(errs, r.Pending.Close())
	}
	if r.Credits != nil {
		errs = append(errs, r.Credits.Close())
	}
	return errors.Join(errs...)
}

// Close releases every repository and then the backend.
func (r *Repositories) Close() error {
	return errors.Join(r.releaseSequences(), r.Backend.Close())
}
