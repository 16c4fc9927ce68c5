package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60*time.Second, cfg.ExtractionConfig().Timeout)
	assert.Equal(t, 7*24*time.Hour, cfg.JobsConfig().FailedRetention)
	assert.Equal(t, time.Hour, cfg.JobsConfig().CompletedRetention)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AIConfig().Host)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitae.toml")
	content := `
[storage]
path = "/var/lib/vitae"

[ai]
host = "https://api.example.com"
model = "gpt-4o-mini"

[extraction]
timeout = "30s"
requests_per_second = 0.5

[jobs]
workers = 8
failed_retention = "48h"

[credits]
per_chunk = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/vitae", cfg.Storage.Path)
	assert.Equal(t, "https://api.example.com/v1", cfg.AIConfig().Host)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.True(t, cfg.AI.JSONMode, "unset keys keep defaults")
	assert.Equal(t, 30*time.Second, cfg.ExtractionConfig().Timeout)
	assert.Equal(t, 0.5, cfg.ExtractionConfig().RequestsPerSecond)

	jobsConfig := cfg.JobsConfig()
	assert.Equal(t, 8, jobsConfig.Workers)
	assert.Equal(t, 48*time.Hour, jobsConfig.FailedRetention)
	assert.Equal(t, int64(3), jobsConfig.CreditsPerChunk)
	assert.Equal(t, 3, jobsConfig.MaxAttempts)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := Load(filepath.Join(dir, "missing.toml"), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	tests := map[string]string{
		"bad duration": "[extraction]\ntimeout = \"soon\"\n",
		"bad syntax":   "[jobs\nworkers = 2\n",
		"zero workers": "[jobs]\nworkers = 0\n",
		"bad temp":     "[ai]\ntemperature = 5.0\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := Load(path, false)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitae.toml")
	cfg := Default()
	cfg.Jobs.Workers = 5
	cfg.Extraction.Timeout = Duration(90 * time.Second)
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
