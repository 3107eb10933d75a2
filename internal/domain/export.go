package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories and stores when a record is missing.
var ErrNotFound = errors.New("not found")

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// ExportJob tracks one asynchronous export of a stored resume.
type ExportJob struct {
	ID               uuid.UUID              `json:"id"`
	ResumeID         uuid.UUID              `json:"resume_id"`
	UserID           uuid.UUID              `json:"user_id"`
	Format           string                 `json:"format"`
	PreviewElementID string                 `json:"preview_element_id,omitempty"`
	Status           JobStatus              `json:"status"`
	Filename         string                 `json:"filename,omitempty"`
	ArtifactKey      string                 `json:"artifact_key,omitempty"`
	Error            string                 `json:"error,omitempty"`
	Metadata         map[string]interface{} `json:"metadata"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Done reports whether the job reached a terminal status.
func (j *ExportJob) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
