package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexhub/cortex"
	cortexjson "github.com/cortexhub/cortex/json"
)

func TestLoadOrCreateTranscriptNew(t *testing.T) {
	t.Parallel()

	tr, err := loadOrCreateTranscript("", "tenant-1", "cafe")
	require.NoError(t, err)

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "tenant-1", tr.TenantID)
	assert.Equal(t, "cafe", tr.BusinessType)
	assert.Empty(t, tr.Messages)
}

func TestLoadOrCreateTranscriptMissingPathCreates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "new.json")
	tr, err := loadOrCreateTranscript(path, "tenant-1", "cafe")
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
}

func TestLoadOrCreateTranscriptResumes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tr.json")
	want := cortex.Transcript{
		ID:        "tr-9",
		TenantID:  "tenant-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
		Messages: []cortex.Message{
			{ID: "m1", Role: cortex.RoleUser, Content: "hi", Phase: cortex.MessageComplete},
		},
	}
	require.NoError(t, cortexjson.Save(path, want))

	got, err := loadOrCreateTranscript(path, "ignored", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "tr-9", got.ID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestSaveTranscriptSkipsEmptyConversation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tr.json")
	require.NoError(t, saveTranscript(path, cortex.Transcript{ID: "tr-1"}, nil))

	_, err := cortexjson.Load(path)
	assert.Error(t, err)
}

func TestSaveTranscriptWritesMessages(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tr.json")
	tr := cortex.Transcript{ID: "tr-1", TenantID: "tenant-1", CreatedAt: time.Now().UTC()}
	msgs := []cortex.Message{
		{ID: "m1", Role: cortex.RoleUser, Content: "hi", Phase: cortex.MessageComplete},
		{ID: "m2", Role: cortex.RoleAssistant, Content: "hello", Phase: cortex.MessageComplete},
	}

	require.NoError(t, saveTranscript(path, tr, msgs))

	got, err := cortexjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tr-1", got.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "hello", got.Messages[1].Content)
}
