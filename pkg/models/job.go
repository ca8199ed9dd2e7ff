package models

import (
	"time"

	"github.com/google/uuid"
)

// JobState is the lifecycle state of a remote analysis job.
type JobState string

const (
	JobStateSubmitted  JobState = "submitted"
	JobStateProcessing JobState = "processing"
	JobStateReady      JobState = "ready"
	JobStateFailed     JobState = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s JobState) Terminal() bool {
	return s == JobStateReady || s == JobStateFailed
}

// Valid reports whether s is one of the known states.
func (s JobState) Valid() bool {
	switch s {
	case JobStateSubmitted, JobStateProcessing, JobStateReady, JobStateFailed:
		return true
	}
	return false
}

// JobStatus is the tracked view of one analysis job, kept for a limited time
// so callers can look up what happened to an upload.
type JobStatus struct {
	JobID     uuid.UUID `json:"job_id"`
	State     JobState  `json:"state"`
	MediaKind MediaKind `json:"tipo_analisis,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
