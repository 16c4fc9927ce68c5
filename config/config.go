// Package config loads the vitae TOML configuration file.
//
// Every section is optional; missing values keep their defaults. Durations
// are written as Go duration strings ("60s", "168h").
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/vitae/ai"
	"github.com/poiesic/vitae/chunking"
	"github.com/poiesic/vitae/extraction"
	"github.com/poiesic/vitae/jobs"
)

// Duration is a time.Duration read from and written as a string.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the whole configuration file.
type Config struct {
	Storage    Storage    `toml:"storage"`
	AI         AI         `toml:"ai"`
	Chunking   Chunking   `toml:"chunking"`
	Extraction Extraction `toml:"extraction"`
	Jobs       Jobs       `toml:"jobs"`
	Credits    Credits    `toml:"credits"`
}

// Storage locates the database.
type Storage struct {
	Path string `toml:"path"`
}

// AI configures the completion service.
type AI struct {
	Host        string  `toml:"host"`
	Model       string  `toml:"model"`
	Token       string  `toml:"token"`
	Temperature float64 `toml:"temperature"`
	JSONMode    bool    `toml:"json_mode"`
}

// Chunking configures the synchronous pipeline.
type Chunking struct {
	MaxChars    int `toml:"max_chars"`
	Concurrency int `toml:"concurrency"`
}

// Extraction bounds completion calls.
type Extraction struct {
	MaxInputChars     int      `toml:"max_input_chars"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
	ParseAttempts     int      `toml:"parse_attempts"`
}

// Jobs configures the background runner.
type Jobs struct {
	Workers            int      `toml:"workers"`
	MaxAttempts        int      `toml:"max_attempts"`
	BaseBackoff        Duration `toml:"base_backoff"`
	PollInterval       Duration `toml:"poll_interval"`
	CompletedRetention Duration `toml:"completed_retention"`
	FailedRetention    Duration `toml:"failed_retention"`
	JanitorInterval    Duration `toml:"janitor_interval"`
}

// Credits configures billing of background work.
type Credits struct {
	PerChunk int64 `toml:"per_chunk"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	aiConfig := ai.DefaultConfig()
	extractionConfig := extraction.DefaultConfig()
	jobsConfig := jobs.DefaultConfig()
	return &Config{
		Storage: Storage{Path: "vitae.db"},
		AI: AI{
			Host:        aiConfig.Host,
			Model:       aiConfig.Model,
			Token:       aiConfig.Token,
			Temperature: aiConfig.Temperature,
			JSONMode:    aiConfig.JSONMode,
		},
		Chunking: Chunking{
			MaxChars:    chunking.DefaultMaxChars,
			Concurrency: 2,
		},
		Extraction: Extraction{
			MaxInputChars:     extractionConfig.MaxInputChars,
			Timeout:           Duration(extractionConfig.Timeout),
			RequestsPerSecond: extractionConfig.RequestsPerSecond,
			Burst:             extractionConfig.Burst,
			ParseAttempts:     extractionConfig.ParseAttempts,
		},
		Jobs: Jobs{
			Workers:            jobsConfig.Workers,
			MaxAttempts:        jobsConfig.MaxAttempts,
			BaseBackoff:        Duration(jobsConfig.BaseBackoff),
			PollInterval:       Duration(jobsConfig.PollInterval),
			CompletedRetention: Duration(jobsConfig.CompletedRetention),
			FailedRetention:    Duration(jobsConfig.FailedRetention),
			JanitorInterval:    Duration(jobsConfig.JanitorInterval),
		},
		Credits: Credits{PerChunk: jobsConfig.CreditsPerChunk},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if c.Chunking.MaxChars <= 0 {
		return errors.New("chunking.max_chars must be positive")
	}
	if c.Chunking.Concurrency < 1 {
		return errors.New("chunking.concurrency must be at least 1")
	}
	if c.Credits.PerChunk < 0 {
		return errors.New("credits.per_chunk cannot be negative")
	}
	if err := c.AIConfig().Validate(); err != nil {
		return err
	}
	if err := c.ExtractionConfig().Validate(); err != nil {
		return err
	}
	if err := c.JobsConfig().Validate(); err != nil {
		return fmt.Errorf("jobs config: %w", err)
	}
	return nil
}

// AIConfig converts the [ai] section.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.AI.Host),
		ai.WithModel(c.AI.Model),
		ai.WithToken(c.AI.Token),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithJSONMode(c.AI.JSONMode),
	)
}

// ExtractionConfig converts the [extraction] section.
func (c *Config) ExtractionConfig() extraction.Config {
	return extraction.Config{
		MaxInputChars:     c.Extraction.MaxInputChars,
		Timeout:           time.Duration(c.Extraction.Timeout),
		RequestsPerSecond: c.Extraction.RequestsPerSecond,
		Burst:             c.Extraction.Burst,
		ParseAttempts:     c.Extraction.ParseAttempts,
	}
}

// JobsConfig converts the [jobs] and [credits] sections.
func (c *Config) JobsConfig() jobs.Config {
	return jobs.Config{
		Workers:            c.Jobs.Workers,
		MaxAttempts:        c.Jobs.MaxAttempts,
		BaseBackoff:        time.Duration(c.Jobs.BaseBackoff),
		PollInterval:       time.Duration(c.Jobs.PollInterval),
		CreditsPerChunk:    c.Credits.PerChunk,
		CompletedRetention: time.Duration(c.Jobs.CompletedRetention),
		FailedRetention:    time.Duration(c.Jobs.FailedRetention),
		JanitorInterval:    time.Duration(c.Jobs.JanitorInterval),
	}
}
