package job_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"load-manager/core/fault"
	"load-manager/feature/job"
	jobmodels "load-manager/feature/job/models"
	"load-manager/feature/manifest"
	manifestmodels "load-manager/feature/manifest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testService(t *testing.T, transfer job.Transferrer) (*job.Service, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	require.NoError(t, manifestmodels.AutoMigrate(db))

	manifests := manifest.NewStore(db, manifest.Options{})
	jobs := job.NewStore(db, job.Options{})
	svc := job.NewService(jobs, manifests, transfer, zap.NewNop())

	_, err := manifests.Create(context.Background(), loadID, []manifestmodels.FileEntry{
		{Path: "qr2/a.fits", Size: 100},
		{Path: "qr2/b.fits", Size: 200},
		{Path: "qr2/level2/c.fits", Size: 50},
	})
	require.NoError(t, err)
	return svc, db
}

func TestService_CreateRequiresManifest(t *testing.T) {
	svc, _ := testService(t, job.NewMockTransfer())
	ctx := context.Background()

	_, err := svc.Create(ctx, "no-such-load")
	require.Error(t, err)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))

	j, err := svc.Create(ctx, loadID)
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusPending, j.Status)
	assert.NotEmpty(t, j.ManifestID)
}

func TestService_RunToCompletion(t *testing.T) {
	svc, _ := testService(t, job.NewMockTransfer())
	ctx := context.Background()

	_, err := svc.Create(ctx, loadID)
	require.NoError(t, err)

	done, err := svc.Run(ctx, loadID, job.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusCompleted, done.Status)
	assert.Equal(t, 3, done.UploadedFiles)
	assert.Equal(t, int64(350), done.UploadedBytes)
	require.NotNil(t, done.StartedAt)
	require.NotNil(t, done.EndedAt)
	assert.False(t, done.EndedAt.Before(*done.StartedAt))

	// A finished job cannot be run again.
	_, err = svc.Run(ctx, loadID, job.RunOptions{})
	require.Error(t, err)
	assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))
}

func TestService_RunCountLimit(t *testing.T) {
	svc, _ := testService(t, job.NewMockTransfer())
	ctx := context.Background()

	_, err := svc.Create(ctx, loadID)
	require.NoError(t, err)

	done, err := svc.Run(ctx, loadID, job.RunOptions{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusCompleted, done.Status)
	assert.Equal(t, 2, done.UploadedFiles)
	assert.Equal(t, int64(300), done.UploadedBytes)
}

func TestService_RunFailureMarksFailed(t *testing.T) {
	transfer := job.NewMockTransfer()
	transfer.FailAt = 1
	svc, _ := testService(t, transfer)
	ctx := context.Background()

	_, err := svc.Create(ctx, loadID)
	require.NoError(t, err)

	done, err := svc.Run(ctx, loadID, job.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusFailed, done.Status)
	assert.Equal(t, 1, done.UploadedFiles)
	assert.Contains(t, done.Detail, "injected")
}

func TestService_AsyncRunStaysRunning(t *testing.T) {
	svc, _ := testService(t, job.HandoffTransfer{})
	ctx := context.Background()

	_, err := svc.Create(ctx, loadID)
	require.NoError(t, err)

	j, err := svc.Run(ctx, loadID, job.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusRunning, j.Status)
	assert.Nil(t, j.EndedAt)

	// The external worker reports back through the completion callback.
	done, err := svc.Complete(ctx, loadID, true, "uploaded by worker", 3, 350)
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusCompleted, done.Status)
	assert.Equal(t, "uploaded by worker", done.Detail)

	// A second callback for the same job is rejected.
	_, err = svc.Complete(ctx, loadID, true, "duplicate", 3, 350)
	require.Error(t, err)
	assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))
}

func TestService_CancelPending(t *testing.T) {
	svc, _ := testService(t, job.HandoffTransfer{})
	ctx := context.Background()

	_, err := svc.Create(ctx, loadID)
	require.NoError(t, err)

	j, err := svc.Cancel(ctx, loadID)
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusCancelled, j.Status)
	require.NotNil(t, j.EndedAt)
}

func TestService_CancelRunning(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected when collaborator cannot interrupt", func(t *testing.T) {
		svc, _ := testService(t, job.HandoffTransfer{})
		_, err := svc.Create(ctx, loadID)
		require.NoError(t, err)
		_, err = svc.Run(ctx, loadID, job.RunOptions{})
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, loadID)
		require.Error(t, err)
		assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))

		// Still RUNNING, still completable.
		j, err := svc.Get(ctx, loadID)
		require.NoError(t, err)
		assert.Equal(t, jobmodels.StatusRunning, j.Status)
	})

	t.Run("terminal jobs cannot be cancelled", func(t *testing.T) {
		svc, _ := testService(t, job.NewMockTransfer())
		_, err := svc.Create(ctx, loadID)
		require.NoError(t, err)
		_, err = svc.Run(ctx, loadID, job.RunOptions{})
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, loadID)
		require.Error(t, err)
		assert.Equal(t, fault.KindIllegalTransition, fault.KindOf(err))
	})
}

func TestService_Report(t *testing.T) {
	svc, _ := testService(t, job.NewMockTransfer())
	ctx := context.Background()

	_, err := svc.Create(ctx, loadID)
	require.NoError(t, err)
	_, err = svc.Run(ctx, loadID, job.RunOptions{})
	require.NoError(t, err)

	j, m, err := svc.Report(ctx, loadID)
	require.NoError(t, err)
	assert.Equal(t, jobmodels.StatusCompleted, j.Status)
	assert.Equal(t, loadID, m.LoadID)
	assert.Equal(t, 3, m.TotalFiles)
}
