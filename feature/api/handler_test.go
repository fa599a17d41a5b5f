package api_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"load-manager/feature/api"
	"load-manager/feature/job"
	jobmodels "load-manager/feature/job/models"
	"load-manager/feature/manifest"
	manifestmodels "load-manager/feature/manifest/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const loadID = "IRSA-qr2-2026_024_20260120T104438"

func setupTestApp(t *testing.T) (*fiber.App, *job.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, manifestmodels.AutoMigrate(db))
	require.NoError(t, jobmodels.AutoMigrate(db))

	manifests := manifest.NewStore(db, manifest.Options{})
	jobs := job.NewService(job.NewStore(db, job.Options{}), manifests, job.HandoffTransfer{}, zap.NewNop())

	_, err = manifests.Create(context.Background(), loadID, []manifestmodels.FileEntry{
		{Path: "qr2/a.fits", Size: 100},
		{Path: "qr2/b.fits", Size: 200},
	})
	require.NoError(t, err)

	app := fiber.New()
	api.NewHandler(manifests, jobs, zap.NewNop()).RegisterRoutes(app)
	return app, jobs
}

func TestHandleHealth(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleGetManifest(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/manifests/"+loadID, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var m manifestmodels.Manifest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, loadID, m.LoadID)
	assert.Equal(t, 2, m.TotalFiles)
	assert.Len(t, m.Entries, 2)
}

func TestHandleGetManifest_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/manifests/no-such-load", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body["kind"])
}

func TestHandleListJobs(t *testing.T) {
	app, jobs := setupTestApp(t)
	_, err := jobs.Create(context.Background(), loadID)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/jobs?load_id=IRSA-qr2-", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Jobs []jobmodels.Job `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, loadID, body.Jobs[0].LoadID)
	assert.Equal(t, jobmodels.StatusPending, body.Jobs[0].Status)
}

func TestHandleCompleteJob(t *testing.T) {
	app, jobs := setupTestApp(t)
	ctx := context.Background()

	_, err := jobs.Create(ctx, loadID)
	require.NoError(t, err)
	_, err = jobs.Run(ctx, loadID, job.RunOptions{})
	require.NoError(t, err)

	body := `{"success": true, "detail": "uploaded by worker", "uploaded_files": 2, "uploaded_bytes": 300}`
	req := httptest.NewRequest("POST", "/jobs/"+loadID+"/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var j jobmodels.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&j))
	assert.Equal(t, jobmodels.StatusCompleted, j.Status)
	assert.Equal(t, 2, j.UploadedFiles)

	// The job is terminal now, so a repeated callback conflicts.
	req = httptest.NewRequest("POST", "/jobs/"+loadID+"/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestHandleCompleteJob_PendingRejected(t *testing.T) {
	app, jobs := setupTestApp(t)
	_, err := jobs.Create(context.Background(), loadID)
	require.NoError(t, err)

	body := `{"success": false, "detail": "half done"}`
	req := httptest.NewRequest("POST", "/jobs/"+loadID+"/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}
