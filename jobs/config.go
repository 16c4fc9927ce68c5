package jobs

import (
	"fmt"
	"time"
)

// Config bounds the job runner.
type Config struct {
	// Workers is the fixed concurrency ceiling of the worker pool.
	Workers int

	// MaxAttempts is the number of times a task is tried before it fails.
	MaxAttempts int

	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration

	// PollInterval is how often the dispatcher looks for due tasks.
	PollInterval time.Duration

	// CreditsPerChunk is debited for every processed chunk.
	CreditsPerChunk int64

	// CompletedRetention is how long completed tasks are kept.
	CompletedRetention time.Duration

	// FailedRetention is how long failed tasks are kept.
	FailedRetention time.Duration

	// JanitorInterval is how often expired tasks are pruned.
	JanitorInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:            2,
		MaxAttempts:        3,
		BaseBackoff:        30 * time.Second,
		PollInterval:       time.Second,
		CreditsPerChunk:    1,
		CompletedRetention: time.Hour,
		FailedRetention:    7 * 24 * time.Hour,
		JanitorInterval:    10 * time.Minute,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BaseBackoff < 0 {
		return fmt.Errorf("base backoff cannot be negative")
	}
	if c.PollInterval <= 0 || c.JanitorInterval <= 0 {
		return fmt.Errorf("poll and janitor intervals must be positive")
	}
	if c.CreditsPerChunk < 0 {
		return fmt.Errorf("credits per chunk cannot be negative")
	}
	if c.CompletedRetention < 0 || c.FailedRetention < 0 {
		return fmt.Errorf("retention cannot be negative")
	}
	return nil
}

// Backoff returns the delay before the retry that follows attempt:
// BaseBackoff * 2^(attempt-1).
func (c Config) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := c.BaseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
