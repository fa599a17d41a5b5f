package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"load-manager/core/fault"
	"load-manager/feature/job/models"
	"load-manager/feature/manifest"
	manifestmodels "load-manager/feature/manifest/models"
)

// Service drives jobs through the lifecycle: it pairs the job store's
// guarded transitions with the manifest store and the transfer collaborator.
type Service struct {
	jobs      *Store
	manifests *manifest.Store
	transfer  Transferrer
	logger    *zap.Logger
}

func NewService(jobs *Store, manifests *manifest.Store, transfer Transferrer, logger *zap.Logger) *Service {
	return &Service{
		jobs:      jobs,
		manifests: manifests,
		transfer:  transfer,
		logger:    logger,
	}
}

// Create registers a PENDING job for an existing manifest.
func (s *Service) Create(ctx context.Context, loadID string) (*models.Job, error) {
	m, err := s.manifests.Get(ctx, loadID)
	if err != nil {
		return nil, err
	}
	j, err := s.jobs.Create(ctx, loadID, m.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job created",
		zap.String("load_id", loadID),
		zap.String("status", string(j.Status)))
	return j, nil
}

// RunOptions tune a single run.
type RunOptions struct {
	// Count limits the run to the first N manifest entries. Zero means all.
	Count int
}

// Run moves the job to RUNNING and hands its manifest entries to the
// transfer collaborator. A synchronous collaborator returns an outcome and
// the job is completed in the same call; an asynchronous one leaves the job
// RUNNING until the completion callback arrives.
func (s *Service) Run(ctx context.Context, loadID string, opts RunOptions) (*models.Job, error) {
	m, err := s.manifests.Get(ctx, loadID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	j, err := s.jobs.Transition(ctx, loadID, models.StatusPending, models.StatusRunning, map[string]any{
		"started_at": now,
	})
	if err != nil {
		return nil, err
	}

	entries := m.Entries
	if opts.Count > 0 && opts.Count < len(entries) {
		entries = entries[:opts.Count]
	}

	s.logger.Info("job started",
		zap.String("load_id", loadID),
		zap.Int("files", len(entries)),
		zap.Time("started_at", now))

	outcome, err := s.transfer.Submit(ctx, j, m, entries)
	if err != nil {
		detail := "transfer submission failed: " + err.Error()
		if _, cerr := s.Complete(ctx, loadID, false, detail, 0, 0); cerr != nil {
			s.logger.Error("failing job after submit error",
				zap.String("load_id", loadID), zap.Error(cerr))
		}
		return nil, fault.Wrap(fault.KindTransfer, "job.run", loadID, err)
	}
	if outcome == nil {
		// Asynchronous hand-off. Completion arrives via callback.
		return j, nil
	}
	return s.Complete(ctx, loadID, outcome.Success, outcome.Detail, outcome.UploadedFiles, outcome.UploadedBytes)
}

// Complete finishes a RUNNING job, recording the outcome reported by the
// transfer collaborator. It backs both synchronous runs and the external
// completion callback.
func (s *Service) Complete(ctx context.Context, loadID string, success bool, detail string, files int, bytes int64) (*models.Job, error) {
	to := models.StatusFailed
	if success {
		to = models.StatusCompleted
	}
	j, err := s.jobs.Transition(ctx, loadID, models.StatusRunning, to, map[string]any{
		"ended_at":       time.Now().UTC(),
		"detail":         detail,
		"uploaded_files": files,
		"uploaded_bytes": bytes,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job finished",
		zap.String("load_id", loadID),
		zap.String("status", string(j.Status)),
		zap.Int("uploaded_files", files),
		zap.Int64("uploaded_bytes", bytes))
	return j, nil
}

// Cancel aborts a job. PENDING jobs cancel unconditionally; RUNNING jobs
// cancel only when the transfer collaborator can interrupt in-flight work.
func (s *Service) Cancel(ctx context.Context, loadID string) (*models.Job, error) {
	j, err := s.jobs.Get(ctx, loadID)
	if err != nil {
		return nil, err
	}

	switch j.Status {
	case models.StatusPending:
		return s.jobs.Transition(ctx, loadID, models.StatusPending, models.StatusCancelled, map[string]any{
			"ended_at": time.Now().UTC(),
			"detail":   "cancelled before start",
		})
	case models.StatusRunning:
		if !s.transfer.SupportsCancel() {
			return nil, fault.New(fault.KindIllegalTransition, "job.cancel", loadID,
				"running job cannot be cancelled: transfer collaborator does not support interruption")
		}
		if err := s.transfer.Cancel(ctx, loadID); err != nil {
			return nil, fault.Wrap(fault.KindTransfer, "job.cancel", loadID, err)
		}
		return s.jobs.Transition(ctx, loadID, models.StatusRunning, models.StatusCancelled, map[string]any{
			"ended_at": time.Now().UTC(),
			"detail":   "cancelled while running",
		})
	default:
		return nil, fault.New(fault.KindIllegalTransition, "job.cancel", loadID,
			"job in terminal status %s cannot be cancelled", j.Status)
	}
}

// Get returns the job.
func (s *Service) Get(ctx context.Context, loadID string) (*models.Job, error) {
	return s.jobs.Get(ctx, loadID)
}

// List returns jobs, optionally filtered by load ID prefix.
func (s *Service) List(ctx context.Context, prefix string) ([]models.Job, error) {
	return s.jobs.List(ctx, prefix)
}

// Report returns the job together with its manifest for rendering.
func (s *Service) Report(ctx context.Context, loadID string) (*models.Job, *manifestmodels.Manifest, error) {
	j, err := s.jobs.Get(ctx, loadID)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.manifests.Get(ctx, loadID)
	if err != nil {
		return nil, nil, err
	}
	return j, m, nil
}
