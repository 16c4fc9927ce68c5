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

// Package vitae wires the storage, completion service and pipelines of a CV
// store into one handle.
package vitae

import (
	"errors"
	"io"
	"log/slog"

	"github.com/poiesic/vitae/ai"
	"github.com/poiesic/vitae/ai/openai"
	"github.com/poiesic/vitae/config"
	"github.com/poiesic/vitae/extraction"
	"github.com/poiesic/vitae/ingestion"
	"github.com/poiesic/vitae/jobs"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/redate"
	"github.com/poiesic/vitae/review"
	"github.com/poiesic/vitae/storage/badger"
	"golang.org/x/time/rate"
)

type Database struct {
	repos    *badger.Repositories
	provider ai.AIProvider
	engine   *reconcile.Engine
	limiter  *rate.Limiter
	options  *databaseOptions
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig         *ai.Config
	provider         ai.AIProvider
	extractionConfig extraction.Config
	jobsConfig       jobs.Config
	chunkSize        int
	concurrency      int
	logger           *slog.Logger
}

// WithAIConfig sets the completion service configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a ready AI provider instead of building one from the
// AI configuration.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithExtractionConfig bounds completion calls.
func WithExtractionConfig(cfg extraction.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.extractionConfig = cfg
	}
}

// WithJobsConfig configures background runners.
func WithJobsConfig(cfg jobs.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.jobsConfig = cfg
	}
}

// WithChunking sets the chunk size and extraction concurrency of the
// synchronous pipeline.
func WithChunking(maxChars, concurrency int) DatabaseOption {
	return func(o *databaseOptions) {
		o.chunkSize = maxChars
		o.concurrency = concurrency
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// Open creates a Database from a loaded configuration file. Extra options
// are applied after the configuration.
func Open(cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	base := []DatabaseOption{
		WithAIConfig(cfg.AIConfig()),
		WithExtractionConfig(cfg.ExtractionConfig()),
		WithJobsConfig(cfg.JobsConfig()),
		WithChunking(cfg.Chunking.MaxChars, cfg.Chunking.Concurrency),
	}
	return NewDatabase(cfg.Storage.Path, append(base, opts...)...)
}

// NewDatabase opens (or creates) the store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	if filePath == "" {
		return nil, errors.New("database path is required")
	}
	options := &databaseOptions{
		aiConfig:         ai.DefaultConfig(),
		extractionConfig: extraction.DefaultConfig(),
		jobsConfig:       jobs.DefaultConfig(),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.extractionConfig.Validate(); err != nil {
		return nil, err
	}

	repos, err := badger.NewRepositories(filePath, options.logger)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		if provider, err = openai.NewProvider(options.aiConfig); err != nil {
			repos.Close()
			return nil, err
		}
	}

	engine, err := reconcile.NewEngine(reconcile.Repositories{
		CVs:        repos.CVs,
		Categories: repos.Categories,
		Entries:    repos.Entries,
		Pending:    repos.Pending,
	}, reconcile.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		repos.Close()
		return nil, err
	}

	return &Database{
		repos:    repos,
		provider: provider,
		engine:   engine,
		limiter:  rate.NewLimiter(rate.Limit(options.extractionConfig.RequestsPerSecond), options.extractionConfig.Burst),
		options:  options,
		logger:   options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// Repositories exposes the underlying stores.
func (db *Database) Repositories() *badger.Repositories {
	return db.repos
}

// Engine returns the shared reconciliation engine.
func (db *Database) Engine() *reconcile.Engine {
	return db.engine
}

// NewExtractionClient returns a client over the configured provider. All
// clients of one Database share a rate limiter.
func (db *Database) NewExtractionClient() (*extraction.Client, error) {
	return extraction.NewClient(db.provider.Completer(),
		extraction.WithConfig(db.options.extractionConfig),
		extraction.WithLimiter(db.limiter),
		extraction.WithLogger(db.logger))
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	client, err := db.NewExtractionClient()
	if err != nil {
		return nil, err
	}
	base := []ingestion.Option{ingestion.WithLogger(db.logger)}
	if db.options.chunkSize > 0 {
		base = append(base, ingestion.WithChunkSize(db.options.chunkSize))
	}
	if db.options.concurrency > 0 {
		base = append(base, ingestion.WithConcurrency(db.options.concurrency))
	}
	return ingestion.NewPipeline(db.engine, db.repos.Profiles, client, append(base, opts...)...)
}

func (db *Database) NewReviewQueue() (*review.Queue, error) {
	return review.NewQueue(reconcile.Repositories{
		CVs:        db.repos.CVs,
		Categories: db.repos.Categories,
		Entries:    db.repos.Entries,
		Pending:    db.repos.Pending,
	}, review.WithLogger(db.logger))
}

// NewJobRunner returns a background runner over a fresh ingestion pipeline.
// The caller starts and stops it.
func (db *Database) NewJobRunner(opts ...jobs.Option) (*jobs.Runner, error) {
	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	base := []jobs.Option{jobs.WithConfig(db.options.jobsConfig), jobs.WithLogger(db.logger)}
	return jobs.NewRunner(db.repos.Tasks, db.repos.Credits, pipeline, append(base, opts...)...)
}

func (db *Database) NewRedater(cfg *redate.Config, progress io.Writer) (*redate.Redater, error) {
	return redate.NewRedater(db.engine, db.repos.Entries, cfg, progress, db.logger)
}
