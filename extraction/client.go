package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/vitae/ai"
	"github.com/poiesic/vitae/core"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the completion service answers with no text.
var ErrEmptyResponse = errors.New("empty completion response")

// Extractor is the behavior the ingestion pipelines need from a Client.
type Extractor interface {
	ExtractDocument(ctx context.Context, chunk core.TextChunk) (*core.Extraction, error)
	ExtractEmail(ctx context.Context, subject, body string) (*core.Extraction, error)
	ExtractSearchResult(ctx context.Context, record string) (*core.Extraction, error)
}

// Client turns text into validated extractions through an ai.Completer.
// It never writes anywhere. Every failure is transient: the returned error
// wraps core.ErrTransient and the extraction is empty, never nil.
type Client struct {
	completer ai.Completer
	limiter   *rate.Limiter
	config    Config
	logger    *slog.Logger
}

var _ Extractor = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithConfig replaces the default bounds.
func WithConfig(config Config) Option {
	return func(c *Client) error {
		if err := config.Validate(); err != nil {
			return err
		}
		c.config = config
		return nil
	}
}

// WithLimiter shares a rate limiter between clients that hit one upstream.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) error {
		c.limiter = limiter
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// NewClient creates an extraction client over completer.
func NewClient(completer ai.Completer, opts ...Option) (*Client, error) {
	if completer == nil {
		return nil, errors.New("extraction: completer is required")
	}
	c := &Client{
		completer: completer,
		config:    DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Limit(c.config.RequestsPerSecond), c.config.Burst)
	}
	c.logger = c.logger.With("component", "extraction")
	return c, nil
}

// ExtractDocument extracts categories, and on the first chunk a profile, from
// one chunk of a CV.
func (c *Client) ExtractDocument(ctx context.Context, chunk core.TextChunk) (*core.Extraction, error) {
	text := c.capInput(chunk.Text)
	result, err := c.extract(ctx, "document", documentSystemPrompt(chunk.IsFirst), documentUserPrompt(text, chunk.Index, chunk.Total))
	if err != nil {
		return result, err
	}
	if !chunk.IsFirst {
		result.Profile = nil
	}
	return result, nil
}

// ExtractEmail extracts accomplishments announced in an email.
func (c *Client) ExtractEmail(ctx context.Context, subject, body string) (*core.Extraction, error) {
	result, err := c.extract(ctx, "email", emailSystemPrompt(), emailUserPrompt(subject, c.capInput(body)))
	if err != nil {
		return result, err
	}
	result.Profile = nil
	return result, nil
}

// ExtractSearchResult converts one bibliographic record into publication entries.
func (c *Client) ExtractSearchResult(ctx context.Context, record string) (*core.Extraction, error) {
	result, err := c.extract(ctx, "search-result", searchResultSystemPrompt(), c.capInput(record))
	if err != nil {
		return result, err
	}
	result.Profile = nil
	return result, nil
}

func (c *Client) capInput(text string) string {
	runes := []rune(text)
	if len(runes) <= c.config.MaxInputChars {
		return text
	}
	c.logger.Warn("input exceeds cap, truncating", "runes", len(runes), "cap", c.config.MaxInputChars)
	return string(runes[:c.config.MaxInputChars])
}

func (c *Client) extract(ctx context.Context, kind, systemPrompt, userPrompt string) (*core.Extraction, error) {
	var lastErr error
	for attempt := 1; attempt <= c.config.ParseAttempts; attempt++ {
		raw, err := c.complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			c.logger.Warn("completion failed", "kind", kind, "attempt", attempt, "err", err)
			return &core.Extraction{}, fmt.Errorf("%w: %w", core.ErrTransient, err)
		}
		if raw == "" {
			lastErr = ErrEmptyResponse
			continue
		}

		result, err := parseResponse(raw)
		if err != nil {
			lastErr = err
			c.logger.Warn("error parsing extraction response",
				"kind", kind,
				"attempt", attempt,
				"response", raw,
				"err", err)
			continue
		}

		c.logger.Debug("extracted",
			"kind", kind,
			"categories", len(result.Categories),
			"entries", result.EntryCount())
		return result, nil
	}

	c.logger.Error("failed to parse extraction response", "kind", kind, "err", lastErr)
	return &core.Extraction{}, fmt.Errorf("%w: %w", core.ErrTransient, lastErr)
}

// complete waits for a rate-limit token and then runs one bounded call.
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()
	return c.completer.Complete(callCtx, systemPrompt, userPrompt)
}
