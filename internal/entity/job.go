package entity

import (
	"time"
)

type JobStatus string

// Only pending is produced here; later statuses are written by the automation backend.
const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusDone       JobStatus = "done"
	StatusError      JobStatus = "error"
)

// Terminal reports whether the automation backend will write no further status.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Job is the local record of a job accepted by the automation webhook.
// The ID is assigned by the remote service.
type Job struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    JobStatus `json:"status"`
	Type      string    `json:"type"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}
