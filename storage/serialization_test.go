package storage

import (
	"testing"
	"time"

	"github.com/poiesic/vitae/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)},
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			id, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestEntry_UndatedSurvivesRoundTrip(t *testing.T) {
	entry := &core.Entry{
		Id:          7,
		CategoryId:  3,
		Title:       "Keynote",
		TitleKey:    "keynote",
		Description: "Invited talk",
		Provenance: core.Provenance{
			Source:       core.SourceDocumentImport,
			DocumentHash: core.IDFromContent("cv text"),
		},
		InsertedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	got, err := UnmarshalEntry(MarshalEntry(entry))
	require.NoError(t, err)
	assert.False(t, got.HasDate())
	assert.True(t, got.Date.IsZero())
	assert.Equal(t, entry.Provenance, got.Provenance)
	assert.True(t, entry.InsertedAt.Equal(got.InsertedAt))
}

func TestTask_ResultAndProgressSurviveRoundTrip(t *testing.T) {
	task := &core.Task{
		Id:          "5f1c",
		UserId:      "alice",
		Text:        "line one\n\nline two",
		State:       core.TaskActive,
		ChunksTotal: 4,
		ChunksDone:  2,
		Result:      core.TaskResult{EntriesCreated: 5, DuplicatesSkipped: 1, CreditsExhausted: true},
		NextRunAt:   time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC),
	}

	got, err := UnmarshalTask(MarshalTask(task))
	require.NoError(t, err)
	assert.Equal(t, task.Result, got.Result)
	assert.Equal(t, 50, got.Progress())
	assert.True(t, task.NextRunAt.Equal(got.NextRunAt))
}

func TestUnmarshal_TruncatedData(t *testing.T) {
	data := MarshalCategory(&core.Category{Id: 1, CVId: 2, Name: "Education"})
	_, err := UnmarshalCategory(data[:len(data)/2])
	assert.Error(t, err)
}
