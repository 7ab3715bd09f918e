package storage

import (
	"path/filepath"
	"testing"

	"github.com/meur/heroforge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := newStore(t)

	run, err := store.CreateRun("images", "heroes", true)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	results := []models.FileResult{
		{File: "zeus.json", Hero: "Zeus", Status: models.StatusUpdated, Changes: []string{"Added image to skill 1: /skills/zeus_skill_1.webp"}},
		{File: "nyx.json", Hero: "Nyx", Status: models.StatusUnchanged, Warnings: []string{"not in guide, defaulting to 0"}},
		{File: "bad.json", Status: models.StatusFailed, Message: "invalid JSON"},
	}
	var sum models.Summary
	for _, r := range results {
		require.NoError(t, store.AddRunFile(run.ID, r))
		sum.Add(r)
	}
	require.NoError(t, store.FinishRun(run.ID, sum))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "images", got.Command)
	assert.True(t, got.DryRun)
	assert.Equal(t, models.Summary{Updated: 1, Unchanged: 1, Defaulted: 1, Errors: 1, Total: 3}, got.Summary)
	assert.NotNil(t, got.FinishedAt)
	require.Len(t, got.Files, 3)
	assert.Equal(t, results[0].Changes, got.Files[0].Changes)
	assert.Equal(t, results[1].Warnings, got.Files[1].Warnings)
	assert.Equal(t, "invalid JSON", got.Files[2].Message)
	assert.Equal(t, models.StatusFailed, got.Files[2].Status)
}

func TestGetRuns(t *testing.T) {
	store := newStore(t)

	for _, cmd := range []string{"images", "relic-levels", "check"} {
		_, err := store.CreateRun(cmd, "heroes", false)
		require.NoError(t, err)
	}

	runs, err := store.GetRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Nil(t, runs[0].FinishedAt)

	missing, err := store.GetRun("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
