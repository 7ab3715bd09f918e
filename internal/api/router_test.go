package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/relic"
	"github.com/meur/heroforge/internal/scan"
	"github.com/meur/heroforge/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store RunStore) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"zeus.json": `{"id":"zeus","name":"Zeus","ratings":{"overall":"S","pvp":"A"},"recommendedRelicLevel":30,"skills":[{"name":"Bolt","description":"Strikes twice"}],"relic":{"name":"Aegis","description":"Blocks"}}`,
		"nyx.json":  `{"id":"nyx","name":"Nyx","skills":[{"name":"Skill Name","description":"TBD"}]}`,
		"bad.json":  `{"id":`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	srv := New(Options{HeroesDir: dir}, scan.New(scan.DefaultConfig()), relic.Default(), store, nil)
	return srv, dir
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetHeroes(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := get(t, srv, "/api/heroes")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Heroes     []models.HeroSummary `json:"heroes"`
		TotalCount int                  `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.TotalCount)

	nyx, zeus := body.Heroes[0], body.Heroes[1]
	assert.Equal(t, "Nyx", nyx.Name)
	assert.Nil(t, nyx.RecommendedRelicLevel)
	assert.Equal(t, "Zeus", zeus.Name)
	assert.Equal(t, "zeus.json", zeus.File)
	assert.True(t, zeus.HasRelic)
	assert.Equal(t, 1, zeus.SkillCount)
	assert.Equal(t, "S", zeus.Ratings["overall"])
	require.NotNil(t, zeus.RecommendedRelicLevel)
	assert.Equal(t, 30, *zeus.RecommendedRelicLevel)
}

func TestGetHero(t *testing.T) {
	srv, dir := newTestServer(t, nil)

	rec := get(t, srv, "/api/heroes/ZEUS")
	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := os.ReadFile(filepath.Join(dir, "zeus.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/heroes/hades").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(t, srv, "/api/heroes/bad").Code)
}

func TestGetIssues(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	var body struct {
		Reports  []models.IssueReport `json:"reports"`
		Total    int                  `json:"total"`
		Complete int                  `json:"complete"`
	}
	rec := get(t, srv, "/api/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 1, body.Complete)
	require.Len(t, body.Reports, 2)
	assert.Equal(t, "bad.json", body.Reports[0].File)
	assert.NotEmpty(t, body.Reports[0].Error)
	assert.Equal(t, "Nyx", body.Reports[1].Name)

	rec = get(t, srv, "/api/issues?all=true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Reports, 3)

	var report models.IssueReport
	rec = get(t, srv, "/api/heroes/nyx/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "nyx.json", report.File)
	require.Len(t, report.Skills, 1)
	assert.Len(t, report.Skills[0].Issues, 2)
}

func TestGetRelicLevels(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	var levels []models.RelicLevel
	rec := get(t, srv, "/api/relic-levels")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &levels))
	assert.Len(t, levels, relic.Default().Len())
	assert.Equal(t, 30, levels[0].Level)

	var level models.RelicLevel
	rec = get(t, srv, "/api/relic-levels/Amun-Ra")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &level))
	assert.Equal(t, models.RelicLevel{Name: "Amun-Ra", Level: 30, Found: true}, level)

	rec = get(t, srv, "/api/relic-levels/nobody")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &level))
	assert.Equal(t, models.RelicLevel{Name: "nobody", Level: relic.DefaultLevel, Found: false}, level)
}

func TestGetRuns(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	run, err := store.CreateRun("images", "heroes", true)
	require.NoError(t, err)
	require.NoError(t, store.AddRunFile(run.ID, models.FileResult{File: "zeus.json", Status: models.StatusUpdated}))
	require.NoError(t, store.FinishRun(run.ID, models.Summary{Updated: 1, Total: 1}))

	srv, _ := newTestServer(t, store)

	var runs []models.Run
	rec := get(t, srv, "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "images", runs[0].Command)

	var got models.Run
	rec = get(t, srv, "/api/runs/"+run.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Files, 1)
	assert.Equal(t, "zeus.json", got.Files[0].File)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/runs/missing").Code)
}

func TestRunsDisabled(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := get(t, srv, "/api/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/runs/x").Code)
}
