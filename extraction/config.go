package extraction

import (
	"errors"
	"time"
)

// Config bounds every call the client makes.
type Config struct {
	// MaxInputChars caps the runes sent per call, even for pre-chunked text.
	MaxInputChars int
	// Timeout bounds a single completion call.
	Timeout time.Duration
	// RequestsPerSecond is the sustained rate of completion calls.
	RequestsPerSecond float64
	// Burst is the token bucket size.
	Burst int
	// ParseAttempts is how many completions a chunk gets when responses fail
	// to parse. Each attempt waits on the rate limiter.
	ParseAttempts int
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxInputChars:     12000,
		Timeout:           60 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
		ParseAttempts:     1,
	}
}

// Validate checks that every bound is usable.
func (c Config) Validate() error {
	if c.MaxInputChars <= 0 {
		return errors.New("extraction config: MaxInputChars must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("extraction config: Timeout must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("extraction config: RequestsPerSecond must be positive")
	}
	if c.Burst < 1 {
		return errors.New("extraction config: Burst must be at least 1")
	}
	if c.ParseAttempts < 1 {
		return errors.New("extraction config: ParseAttempts must be at least 1")
	}
	return nil
}
