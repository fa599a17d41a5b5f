package job

import (
	"context"
	"errors"
	"time"

	"load-manager/core/fault"
	"load-manager/feature/job/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store owns Job records and enforces the status graph through guarded
// updates. Every transition is a compare-and-swap on the status column, so
// concurrent invocations across processes serialize on the backing store
// and a job is started at most once.
type Store struct {
	db         *gorm.DB
	allowRetry bool
}

// Options controls store policy.
type Options struct {
	// AllowRetry permits creating a fresh job for a load whose previous
	// job reached a terminal state. The old record is replaced.
	AllowRetry bool
}

// NewStore creates a job store.
func NewStore(db *gorm.DB, opts Options) *Store {
	return &Store{db: db, allowRetry: opts.AllowRetry}
}

// Create persists a new PENDING job for the load. The caller must have
// resolved the manifest already; manifestID ties the job to it.
func (s *Store) Create(ctx context.Context, loadID, manifestID string) (*models.Job, error) {
	const op = "job.create"

	j := &models.Job{
		ID:         uuid.NewString(),
		LoadID:     loadID,
		ManifestID: manifestID,
		Status:     models.StatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Job
		res := tx.Where("load_id = ?", loadID).First(&existing)
		if res.Error == nil {
			if !existing.Status.Terminal() {
				return fault.New(fault.KindConflict, op, loadID,
					"job already exists in status %s", existing.Status)
			}
			if !s.allowRetry {
				return fault.New(fault.KindConflict, op, loadID,
					"job already finished with status %s (retry disabled)", existing.Status)
			}
			// Retry policy: replace the terminal record with a fresh job.
			if err := tx.Delete(&existing).Error; err != nil {
				return fault.Wrap(fault.KindInternal, op, loadID, err)
			}
		} else if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return fault.Wrap(fault.KindInternal, op, loadID, res.Error)
		}

		if err := tx.Create(j).Error; err != nil {
			return fault.Wrap(fault.KindInternal, op, loadID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return j, nil
}

// Get returns the job for the load.
func (s *Store) Get(ctx context.Context, loadID string) (*models.Job, error) {
	const op = "job.get"

	var j models.Job
	res := s.db.WithContext(ctx).Where("load_id = ?", loadID).First(&j)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.KindNotFound, op, loadID, "no job for load")
		}
		return nil, fault.Wrap(fault.KindInternal, op, loadID, res.Error)
	}

	return &j, nil
}

// List returns jobs ordered by creation time ascending. The filter matches
// load_id by prefix; empty matches all.
func (s *Store) List(ctx context.Context, filter string) ([]models.Job, error) {
	const op = "job.list"

	q := s.db.WithContext(ctx).Order("created_at ASC, load_id ASC")
	if filter != "" {
		q = q.Where("load_id LIKE ?", filter+"%")
	}

	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fault.Wrap(fault.KindInternal, op, filter, err)
	}
	return jobs, nil
}

// Transition atomically moves the job from one status to another, applying
// the extra column updates in the same statement. The update is guarded on
// the current status (compare-and-swap): when no row matches, the job either
// does not exist or sits in a different status, and a typed fault reports
// which.
func (s *Store) Transition(ctx context.Context, loadID string, from, to models.Status, updates map[string]any) (*models.Job, error) {
	const op = "job.transition"

	if !from.CanTransition(to) {
		return nil, fault.New(fault.KindIllegalTransition, op, loadID,
			"no %s -> %s edge in the status graph", from, to)
	}

	values := map[string]any{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range updates {
		values[k] = v
	}

	res := s.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("load_id = ? AND status = ?", loadID, from).
		Updates(values)
	if res.Error != nil {
		return nil, fault.Wrap(fault.KindInternal, op, loadID, res.Error)
	}

	if res.RowsAffected == 0 {
		current, err := s.Get(ctx, loadID)
		if err != nil {
			return nil, err
		}
		return nil, fault.New(fault.KindIllegalTransition, op, loadID,
			"cannot transition to %s: status is %s, not %s", to, current.Status, from)
	}

	return s.Get(ctx, loadID)
}
