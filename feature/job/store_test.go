package job_test

import (
	"context"
	"testing"
	"time"

	"load-manager/core/fault"
	"load-manager/feature/job"
	"load-manager/feature/job/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

const loadID = "IRSA-qr2-2026_024_20260120T104438"

func TestStore_Lifecycle(t *testing.T) {
	store := job.NewStore(testDB(t), job.Options{})
	ctx := context.Background()

	created, err := store.Create(ctx, loadID, "manifest-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Nil(t, created.StartedAt)
	assert.Nil(t, created.EndedAt)

	started := time.Now().UTC()
	running, err := store.Transition(ctx, loadID, models.StatusPending, models.StatusRunning, map[string]any{
		"started_at": started,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, running.Status)
	require.NotNil(t, running.StartedAt)

	done, err := store.Transition(ctx, loadID, models.StatusRunning, models.StatusCompleted, map[string]any{
		"ended_at":       time.Now().UTC(),
		"detail":         "uploaded 3 files",
		"uploaded_files": 3,
		"uploaded_bytes": int64(350),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, 3, done.UploadedFiles)
	assert.Equal(t, int64(350), done.UploadedBytes)
	assert.Equal(t, "uploaded 3 files", done.Detail)
	require.NotNil(t, done.EndedAt)
	assert.True(t, done.Status.Terminal())
}

func TestStore_CreateConflict(t *testing.T) {
	store := job.NewStore(testDB(t), job.Options{})
	ctx := context.Background()

	_, err := store.Create(ctx, loadID, "manifest-1")
	require.NoError(t, err)

	_, err = store.Create(ctx, loadID, "manifest-1")
	require.Error(t, err)
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))
}

func TestStore_RetryPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled rejects terminal retry", func(t *testing.T) {
		store := job.NewStore(testDB(t), job.Options{})
		_, err := store.Create(ctx, loadID, "manifest-1")
		require.NoError(t, err)
		_, err = store.Transition(ctx, loadID, models.StatusPending, models.StatusCancelled, nil)
		require.NoError(t, err)

		_, err = store.Create(ctx, loadID, "manifest-1")
		require.Error(t, err)
		assert.Equal(t, fault.KindConflict, fault.KindOf(err))
	})

	t.Run("enabled replaces terminal job", func(t *testing.T) {
		store := job.NewStore(testDB(t), job.Options{AllowRetry: true})
		first, err := store.Create(ctx, loadID, "manifest-1")
		require.NoError(t, err)
		_, err = store.Transition(ctx, loadID, models.StatusPending, models.StatusCancelled, nil)
		require.NoError(t, err)

		second, err := store.Create(ctx, loadID, "manifest-1")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, models.StatusPending, second.Status)

		// A non-terminal job is never replaced, retry or not.
		_, err = store.Create(ctx, loadID, "manifest-1")
		require.Error(t, err)
		assert.Equal(t, fault.KindConflict, fault.KindOf(err))
	})
}

func TestStore_TransitionGuards(t *testing.T) {
	store := job.NewStore(testDB(t), job.Options{})
	ctx := context.Background()

	_, err := store.Create(ctx, loadID, "manifest-1")
	require.NoError(t, err)

	// No PENDING -> COMPLETED edge in the graph.
	_, err = store.Transition(ctx, loadID, models.StatusPending, models.StatusCompleted, nil)
	require.Error(t, err)
	assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))

	// Valid edge, but the job is not RUNNING.
	_, err = store.Transition(ctx, loadID, models.StatusRunning, models.StatusCompleted, nil)
	require.Error(t, err)
	assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))
	assert.Contains(t, err.Error(), string(models.StatusPending))

	// Cancelling twice: the second CAS finds no PENDING row.
	_, err = store.Transition(ctx, loadID, models.StatusPending, models.StatusCancelled, nil)
	require.NoError(t, err)
	_, err = store.Transition(ctx, loadID, models.StatusPending, models.StatusCancelled, nil)
	require.Error(t, err)
	assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))
}

func TestStore_TransitionUnknownLoad(t *testing.T) {
	store := job.NewStore(testDB(t), job.Options{})

	_, err := store.Transition(context.Background(), "no-such-load", models.StatusPending, models.StatusRunning, nil)
	require.Error(t, err)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
}

func TestStore_List(t *testing.T) {
	store := job.NewStore(testDB(t), job.Options{})
	ctx := context.Background()

	for _, id := range []string{"IRSA-qr2-a", "IRSA-qr2-b", "IRSA-qr3-a"} {
		_, err := store.Create(ctx, id, "manifest-1")
		require.NoError(t, err)
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	qr2, err := store.List(ctx, "IRSA-qr2-")
	require.NoError(t, err)
	require.Len(t, qr2, 2)
	assert.Equal(t, "IRSA-qr2-a", qr2[0].LoadID)
	assert.Equal(t, "IRSA-qr2-b", qr2[1].LoadID)
}
