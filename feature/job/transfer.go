package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	jobmodels "load-manager/feature/job/models"
	manifestmodels "load-manager/feature/manifest/models"
)

// Outcome is the completion report from a transfer collaborator.
type Outcome struct {
	Success       bool
	Detail        string
	UploadedFiles int
	UploadedBytes int64
}

// Transferrer is the external transfer collaborator contract. The tracker
// never moves bytes itself; it hands the manifest's entries to a
// collaborator and records the outcome.
//
// Submit either performs the transfer synchronously and returns a non-nil
// Outcome, or enqueues the work elsewhere and returns (nil, nil) — in which
// case the completion callback (Service.Complete, also exposed over the
// status API) delivers the outcome later.
type Transferrer interface {
	Submit(ctx context.Context, j *jobmodels.Job, m *manifestmodels.Manifest, entries []manifestmodels.FileEntry) (*Outcome, error)

	// Cancel interrupts an in-flight transfer for the load.
	Cancel(ctx context.Context, loadID string) error

	// SupportsCancel reports whether RUNNING jobs can be interrupted.
	// When false, RUNNING -> CANCELLED is rejected fast.
	SupportsCancel() bool
}

// MockTransfer is an in-process collaborator that pretends to upload every
// entry. It supports cancellation and failure injection and is used by
// tests and by `job run --mock` dry runs.
type MockTransfer struct {
	// Delay is slept per entry to simulate transfer time.
	Delay time.Duration
	// FailAt injects a failure after that many entries succeeded.
	// Negative means never fail.
	FailAt int

	mu        sync.Mutex
	cancelled map[string]bool
}

// NewMockTransfer creates a mock collaborator that never fails.
func NewMockTransfer() *MockTransfer {
	return &MockTransfer{FailAt: -1}
}

func (t *MockTransfer) Submit(ctx context.Context, j *jobmodels.Job, m *manifestmodels.Manifest, entries []manifestmodels.FileEntry) (*Outcome, error) {
	var files int
	var bytes int64

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return &Outcome{
				Detail:        fmt.Sprintf("interrupted after %d/%d files: %v", files, len(entries), err),
				UploadedFiles: files,
				UploadedBytes: bytes,
			}, nil
		}
		if t.isCancelled(j.LoadID) {
			return &Outcome{
				Detail:        fmt.Sprintf("cancelled after %d/%d files", files, len(entries)),
				UploadedFiles: files,
				UploadedBytes: bytes,
			}, nil
		}
		if t.FailAt >= 0 && files >= t.FailAt {
			return &Outcome{
				Detail:        fmt.Sprintf("upload of %s failed (injected)", e.Path),
				UploadedFiles: files,
				UploadedBytes: bytes,
			}, nil
		}
		if t.Delay > 0 {
			time.Sleep(t.Delay)
		}
		files++
		bytes += e.Size
	}

	return &Outcome{
		Success:       true,
		Detail:        fmt.Sprintf("uploaded %d files (mock)", files),
		UploadedFiles: files,
		UploadedBytes: bytes,
	}, nil
}

func (t *MockTransfer) Cancel(ctx context.Context, loadID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled == nil {
		t.cancelled = make(map[string]bool)
	}
	t.cancelled[loadID] = true
	return nil
}

func (t *MockTransfer) SupportsCancel() bool {
	return true
}

func (t *MockTransfer) isCancelled(loadID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled[loadID]
}

// HandoffTransfer represents the production collaborator: an external upload
// worker that consumes the manifest out of band and reports back through the
// completion callback. Submit only records the handoff; the job stays
// RUNNING until the callback arrives. It cannot interrupt in-flight work.
type HandoffTransfer struct{}

func (HandoffTransfer) Submit(ctx context.Context, j *jobmodels.Job, m *manifestmodels.Manifest, entries []manifestmodels.FileEntry) (*Outcome, error) {
	return nil, nil
}

func (HandoffTransfer) Cancel(ctx context.Context, loadID string) error {
	return fmt.Errorf("external transfer worker does not support interruption")
}

func (HandoffTransfer) SupportsCancel() bool {
	return false
}
