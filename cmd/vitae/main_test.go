package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/poiesic/vitae/core"
	"github.com/poiesic/vitae/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against a fresh app and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"vitae"}, args...))
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: "debug"},
		{level: "INFO"},
		{level: "warn"},
		{level: "error"},
		{level: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := run(t, "--log-level", tt.level, "--db", t.TempDir(), "--user", "ada", "credits", "balance")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit config must exist", func(t *testing.T) {
		_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "--user", "ada", "credits", "balance")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("file values are read", func(t *testing.T) {
		dir := t.TempDir()
		db := filepath.Join(dir, "from-config")
		path := filepath.Join(dir, "vitae.toml")
		require.NoError(t, os.WriteFile(path, []byte("[storage]\npath = \""+filepath.ToSlash(db)+"\"\n"), 0644))

		_, err := run(t, "--config", path, "--user", "ada", "credits", "grant", "3")
		require.NoError(t, err)
		assert.DirExists(t, db)
	})

	t.Run("empty overrides keep file values", func(t *testing.T) {
		_, err := run(t, "--db", t.TempDir(), "--ai-host", "", "--ai-model", "m", "--user", "ada", "credits", "balance")
		require.NoError(t, err)
	})
}

func TestUserRequired(t *testing.T) {
	_, err := run(t, "--db", t.TempDir(), "pending", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingUser)
}

func TestCredits(t *testing.T) {
	db := t.TempDir()

	out, err := run(t, "--db", db, "--user", "ada", "credits", "grant", "5")
	require.NoError(t, err)
	assert.Equal(t, "balance: 5\n", out)

	out, err = run(t, "--db", db, "--user", "ada", "credits", "balance")
	require.NoError(t, err)
	assert.Equal(t, "balance: 5\n", out)

	out, err = run(t, "--db", db, "--user", "bob", "credits", "balance")
	require.NoError(t, err)
	assert.Equal(t, "balance: 0\n", out)

	_, err = run(t, "--db", db, "--user", "ada", "credits", "grant", "0")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestEmptyCV(t *testing.T) {
	db := t.TempDir()

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"show"}, want: "No CV yet\n"},
		{args: []string{"pending", "list"}, want: "No pending entries\n"},
		{args: []string{"duplicates", "scan"}, want: "No duplicates\n"},
		{args: []string{"duplicates", "delete", "--all"}, want: "No duplicates\n"},
		{args: []string{"missing-dates"}, want: "Every entry has a date\n"},
		{args: []string{"find", "Best", "Paper"}, want: "No entry matches \"Best Paper\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := run(t, append([]string{"--db", db, "--user", "ada"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPendingApprove_UnknownCategoryName(t *testing.T) {
	_, err := run(t, "--db", t.TempDir(), "--user", "ada", "pending", "approve", "1", "Talks")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDuplicatesDelete_RequiresIDsOrAll(t *testing.T) {
	db := t.TempDir()

	_, err := run(t, "--db", db, "--user", "ada", "duplicates", "delete")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "--user", "ada", "duplicates", "delete", "--all", "7")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "--user", "ada", "duplicates", "delete", "seven")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSubmitStatusCancel(t *testing.T) {
	db := t.TempDir()
	doc := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(doc, []byte("Talks\nKeynote at PyCon, 2021"), 0644))

	t.Run("no credits", func(t *testing.T) {
		_, err := run(t, "--db", db, "--user", "ada", "submit", doc)
		assert.ErrorIs(t, err, core.ErrInsufficientCredits)
	})

	_, err := run(t, "--db", db, "--user", "ada", "credits", "grant", "10")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "--user", "ada", "submit", doc)
	require.NoError(t, err)
	m := regexp.MustCompile(`^task (\S+) queued\n$`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	taskID := m[1]

	out, err = run(t, "--db", db, "--user", "ada", "submit", doc)
	require.NoError(t, err)
	assert.Equal(t, "task "+taskID+" queued (already in flight)\n", out)

	out, err = run(t, "--db", db, "--user", "ada", "status", taskID)
	require.NoError(t, err)
	assert.Contains(t, out, "waiting")

	_, err = run(t, "--db", db, "--user", "bob", "status", taskID)
	assert.Error(t, err, "tasks are private to their owner")

	out, err = run(t, "--db", db, "--user", "ada", "cancel", taskID)
	require.NoError(t, err)
	assert.Equal(t, "task "+taskID+" cancelled\n", out)

	out, err = run(t, "--db", db, "--user", "ada", "status", taskID)
	require.NoError(t, err)
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "failure: cancelled")
}

func TestIngest_RequiresFiles(t *testing.T) {
	_, err := run(t, "--db", t.TempDir(), "--user", "ada", "ingest")
	assert.Error(t, err)

	_, err = run(t, "--db", t.TempDir(), "--user", "ada", "ingest-email")
	assert.Error(t, err)
}
