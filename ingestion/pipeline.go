package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/poiesic/vitae/chunking"
	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/extraction"
	"github.com/poiesic/vitae/reconcile"
	"github.com/poiesic/vitae/storage"
	"github.com/poiesic/vitae/textextract"
	"golang.org/x/sync/errgroup"
)

// Summary reports a synchronous document ingestion.
type Summary struct {
	reconcile.Summary
	ChunksTotal  int
	ChunksFailed int
}

// Pipeline orchestrates synchronous ingestion of documents, chunks, emails
// and search results.
type Pipeline struct {
	engine      *reconcile.Engine
	profiles    storage.ProfileRepository
	extractor   extraction.Extractor
	texts       textextract.Extractor
	chunkSize   int
	concurrency int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConcurrency bounds the number of chunks extracted at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
		return nil
	}
}

// WithChunkSize sets the maximum chunk size in characters.
// Default is chunking.DefaultMaxChars.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", chunking.ErrInvalidSize, size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithTextExtractor replaces the default media type registry.
func WithTextExtractor(texts textextract.Extractor) Option {
	return func(p *Pipeline) error {
		p.texts = texts
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline. The engine's logger is left
// alone; configure it with reconcile.WithLogger.
func NewPipeline(
	engine *reconcile.Engine,
	profiles storage.ProfileRepository,
	extractor extraction.Extractor,
	opts ...Option,
) (*Pipeline, error) {
	if engine == nil || profiles == nil {
		return nil, ErrRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	concurrency := runtime.NumCPU() / 2
	if concurrency < 1 {
		concurrency = 1
	}

	p := &Pipeline{
		engine:      engine,
		profiles:    profiles,
		extractor:   extractor,
		texts:       textextract.New(),
		chunkSize:   chunking.DefaultMaxChars,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "ingestion")
	return p, nil
}

// ChunkSize returns the configured maximum chunk size.
func (p *Pipeline) ChunkSize() int {
	return p.chunkSize
}

// IngestDocument extracts the text of doc and ingests it. Input errors are
// reported before anything is written.
func (p *Pipeline) IngestDocument(ctx context.Context, userID core.UserID, doc core.RawDocument) (Summary, error) {
	if userID == "" {
		return Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrMissingUser)
	}
	if len(doc.Content) == 0 {
		return Summary{}, fmt.Errorf("%w: document %q is empty", core.ErrInvalidInput, doc.FileName)
	}
	mediaType := doc.MediaType
	if mediaType == "" {
		mediaType = textextract.MediaTypeFor(doc.FileName)
	}
	text, err := p.texts.Extract(ctx, doc.Content, mediaType)
	if err != nil {
		return Summary{}, err
	}
	return p.IngestText(ctx, userID, text)
}

// IngestText chunks text, extracts every chunk concurrently and reconciles the
// results in document order.
func (p *Pipeline) IngestText(ctx context.Context, userID core.UserID, text string) (Summary, error) {
	if userID == "" {
		return Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrMissingUser)
	}
	if strings.TrimSpace(text) == "" {
		return Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, ErrNoText)
	}
	chunks, err := chunking.Split(text, p.chunkSize)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}
	hash := core.IDFromContent(text)
	logger := p.logger.With("user", userID, "document", hash)

	extractions, err := p.extractAll(ctx, logger, chunks)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{ChunksTotal: len(chunks)}
	categories := map[string]struct{}{}
	for i, chunk := range chunks {
		if extractions[i] == nil {
			summary.ChunksFailed++
			continue
		}
		for _, category := range extractions[i].Categories {
			name := strings.ToLower(strings.TrimSpace(category.Name))
			if name == "" {
				name = strings.ToLower(reconcile.DefaultCategory)
			}
			categories[name] = struct{}{}
		}
		chunkSummary, err := p.reconcileChunk(ctx, userID, chunk, extractions[i], hash)
		summary.Add(chunkSummary)
		if err != nil {
			return summary, fmt.Errorf("reconciling chunk %d: %w", chunk.Index, err)
		}
	}
	summary.CategoriesFound = len(categories)

	logger.Info("document ingested",
		"chunks", summary.ChunksTotal,
		"failed", summary.ChunksFailed,
		"created", summary.EntriesCreated,
		"updated", summary.EntriesUpdated,
		"duplicates", summary.DuplicatesSkipped)
	return summary, nil
}

// extractAll runs extraction for every chunk. A nil slot marks a chunk whose
// extraction failed.
func (p *Pipeline) extractAll(ctx context.Context, logger *slog.Logger, chunks []core.TextChunk) ([]*core.Extraction, error) {
	results := make([]*core.Extraction, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			extraction, err := p.extractor.ExtractDocument(gctx, chunk)
			if err != nil {
				if errors.Is(err, core.ErrTransient) && ctx.Err() == nil {
					logger.Warn("chunk extraction failed", "chunk", chunk.Index, "err", err)
					return nil
				}
				return err
			}
			results[i] = extraction
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
