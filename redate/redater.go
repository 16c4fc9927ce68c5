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

package redate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
)

// Config holds configuration for a re-dating run.
type Config struct {
	// BatchSize is the number of entries written per update.
	BatchSize int

	// ReportInterval is how often to report progress (number of entries).
	ReportInterval int

	// MaxRetries is the maximum number of write attempts per batch.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// DryRun computes dates without writing them.
	DryRun bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Result summarizes a run.
type Result struct {
	Scanned int
	Dated   []*core.Entry
}

// Redater re-dates a user's undated canonical entries.
type Redater struct {
	config    *Config
	progress  io.Writer
	iterator  *EntryIterator
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewRedater creates a new redater.
// progress: where to write progress output (typically os.Stderr, or nil)
func NewRedater(source Source, entries storage.EntryRepository, config *Config, progress io.Writer, logger *slog.Logger) (*Redater, error) {
	if source == nil || entries == nil {
		return nil, ErrSourceRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Redater{
		config:    config,
		progress:  progress,
		iterator:  NewEntryIterator(source, config.BatchSize),
		processor: NewBatchProcessor(entries, config.MaxRetries, config.RetryDelay, config.DryRun),
		logger:    logger.With("component", "redate"),
	}, nil
}

// Run re-dates every undated entry of the user that now resolves.
func (r *Redater) Run(ctx context.Context, userID core.UserID) (Result, error) {
	var result Result
	if userID == "" {
		return result, core.ErrMissingUser
	}

	entries, err := r.iterator.Load(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to list undated entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(r.progress, "No undated entries\n")
		return result, nil
	}

	fmt.Fprintf(r.progress, "Re-dating %d entries (batch size: %d)\n", len(entries), r.iterator.batchSize)
	tracker := NewProgressTracker(r.progress, len(entries), r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, entries, func(batch []*core.Entry) error {
		dated, err := r.processor.Process(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		result.Scanned += len(batch)
		result.Dated = append(result.Dated, dated...)
		tracker.Add(len(batch), len(dated))
		return nil
	})
	if err != nil {
		return result, err
	}
	tracker.Finish()

	r.logger.Info("re-dated entries",
		"user", userID,
		"scanned", result.Scanned,
		"dated", len(result.Dated),
		"dry_run", r.config.DryRun,
		"elapsed", tracker.Elapsed().Round(time.Millisecond))
	return result, nil
}
