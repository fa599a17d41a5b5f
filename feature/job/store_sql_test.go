package job_test

import (
	"context"
	"testing"
	"time"

	"load-manager/feature/job"
	"load-manager/feature/job/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

// The transition update must be guarded on the current status so that two
// concurrent actors cannot both win the same edge.
func TestStore_TransitionGuardedUpdateSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	store := job.NewStore(db, job.Options{})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `jobs` SET .+ WHERE load_id = \\? AND status = \\?").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "IRSA-qr2-a", string(models.StatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows := sqlmock.NewRows([]string{"id", "load_id", "manifest_id", "status", "started_at", "created_at", "updated_at"}).
		AddRow("job-1", "IRSA-qr2-a", "manifest-1", string(models.StatusRunning), time.Now(), time.Now(), time.Now())
	mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE load_id = \\?").
		WillReturnRows(rows)

	got, err := store.Transition(context.Background(), "IRSA-qr2-a", models.StatusPending, models.StatusRunning, map[string]any{
		"started_at": time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, got.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}
