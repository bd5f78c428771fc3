package models

import (
	"encoding/json"
	"time"
)

type JobStatus string

const (
	JobStatusNew     JobStatus = "new"
	JobStatusOngoing JobStatus = "ongoing"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// ExportJob tracks a long-running document export. Detail carries the task
// parameters, Message the outcome (attachment UUID or error text).
type ExportJob struct {
	ID        int             `json:"id"`
	Type      string          `json:"type"`
	Status    JobStatus       `json:"status"`
	Progress  int             `json:"progress"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// JobAttachment is a file produced by a job, kept alongside the job record.
type JobAttachment struct {
	ID        int       `json:"id" db:"id"`
	UUID      string    `json:"uuid" db:"uuid"`
	JobID     int       `json:"job_id" db:"job_id"`
	Name      string    `json:"name" db:"name"`
	Content   []byte    `json:"-" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type FlatExportJobRecord struct {
	ID        int       `db:"id"`
	Type      string    `db:"job_type"`
	Status    string    `db:"status"`
	Progress  int       `db:"progress"`
	Detail    []byte    `db:"detail"`
	Message   []byte    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (f *FlatExportJobRecord) TransformToJob() ExportJob {
	return ExportJob{
		ID:        f.ID,
		Type:      f.Type,
		Status:    JobStatus(f.Status),
		Progress:  f.Progress,
		Detail:    f.Detail,
		Message:   f.Message,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (j *ExportJob) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   j.ID,
		ResourceType: "export_job",
	}
}
