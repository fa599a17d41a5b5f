package models

import (
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of an upload job.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the legal status graph. RUNNING -> CANCELLED is listed
// here but additionally gated at the service level on the transfer
// collaborator supporting interruption.
var transitions = map[Status][]Status{
	StatusPending: {StatusRunning, StatusCancelled},
	StatusRunning: {StatusCompleted, StatusFailed, StatusCancelled},
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the edge s -> to exists in the status graph.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Job tracks the execution of uploading one manifest's files. Exactly one
// job exists per load at a time.
type Job struct {
	ID         string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	LoadID     string     `gorm:"column:load_id;uniqueIndex;size:128" json:"load_id"`
	ManifestID string     `gorm:"column:manifest_id;size:36" json:"manifest_id"`
	Status     Status     `gorm:"column:status;size:16;index" json:"status"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
	StartedAt  *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	EndedAt    *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`

	// Detail records the outcome reported by the transfer collaborator.
	Detail string `gorm:"column:detail;size:1024" json:"detail,omitempty"`

	UploadedFiles int   `gorm:"column:uploaded_files" json:"uploaded_files"`
	UploadedBytes int64 `gorm:"column:uploaded_bytes" json:"uploaded_bytes"`
}

// TableName overrides the table name.
func (Job) TableName() string {
	return "jobs"
}

// Elapsed returns the wall time between start and end (or now, while
// running). Zero when the job never started.
func (j *Job) Elapsed() time.Duration {
	if j.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if j.EndedAt != nil {
		end = *j.EndedAt
	}
	return end.Sub(*j.StartedAt)
}

// AutoMigrate creates or updates the job table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Job{})
}
