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

package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/jobs"
	"github.com/poiesic/vitae/textextract"
)

// DefaultSettle is how long a file must stay quiet before it is submitted.
const DefaultSettle = 500 * time.Millisecond

var ErrSubmitterRequired = errors.New("submitter is required")

// Submitter queues extracted text. jobs.Runner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req jobs.SubmitRequest) (jobs.Handle, error)
}

// Watcher submits every regular, non-hidden file written to a directory on
// behalf of one user.
type Watcher struct {
	dir       string
	userID    core.UserID
	submitter Submitter
	texts     textextract.Extractor
	settle    time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

type Option func(*Watcher) error

// WithSettle sets the quiet period before a changed file is submitted.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) error {
		if d < 0 {
			return fmt.Errorf("settle must not be negative: %v", d)
		}
		w.settle = d
		return nil
	}
}

func WithTextExtractor(texts textextract.Extractor) Option {
	return func(w *Watcher) error {
		w.texts = texts
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) error {
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a watcher for dir. The directory must exist.
func NewWatcher(dir string, userID core.UserID, submitter Submitter, opts ...Option) (*Watcher, error) {
	if submitter == nil {
		return nil, ErrSubmitterRequired
	}
	if userID == "" {
		return nil, core.ErrMissingUser
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	w := &Watcher{
		dir:       dir,
		userID:    userID,
		submitter: submitter,
		texts:     textextract.New(),
		settle:    DefaultSettle,
		logger:    slog.Default(),
		pending:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	w.logger = w.logger.With("component", "inbox", "dir", dir)
	return w, nil
}

// Run watches the directory until ctx is cancelled. Files already present
// are not submitted.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching inbox")

	defer w.wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// handleEvent schedules a submission for created or written files and
// cancels it for removed or renamed ones.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) bool {
	if isHidden(event.Name) {
		return false
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(event.Name)
		return false
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
		w.schedule(ctx, event.Name)
		return true
	}
	return false
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok && timer.Stop() {
		timer.Reset(w.settle)
		return
	}
	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := w.Submit(ctx, path); err != nil {
			w.logger.Error("failed to submit file", "file", path, "err", err)
		}
	})
	w.pending[path] = timer
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok && timer.Stop() {
		w.wg.Done()
		delete(w.pending, path)
	}
}

func (w *Watcher) wait() {
	w.mu.Lock()
	for path, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// Submit extracts the text of one file and queues it.
func (w *Watcher) Submit(ctx context.Context, path string) (jobs.Handle, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return jobs.Handle{}, err
	}
	name := filepath.Base(path)
	text, err := w.texts.Extract(ctx, content, textextract.MediaTypeFor(name))
	if err != nil {
		return jobs.Handle{}, fmt.Errorf("failed to extract text from %s: %w", name, err)
	}
	handle, err := w.submitter.Submit(ctx, jobs.SubmitRequest{
		UserID:   w.userID,
		Text:     text,
		FileName: name,
	})
	if err != nil {
		return jobs.Handle{}, err
	}
	w.logger.Info("queued file", "file", name, "task_id", handle.TaskID, "duplicate", handle.Duplicate)
	return handle, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
