package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"logistics/internal/repository"
	custom_error "logistics/pkg/errors"
	"logistics/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *JobsRepository {
	return &JobsRepository{
		repository: r,
	}
}

func (r *JobsRepository) CreateJob(jobType string, detail interface{}) (*models.ExportJob, error) {
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job detail: %w", err)
	}

	var jobID int
	query := r.repository.GoquDBWrapper.Insert("export_jobs").
		Rows(goqu.Record{
			"job_type": jobType,
			"status":   string(models.JobStatusNew),
			"progress": 0,
			"detail":   detailJSON,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&jobID); err != nil {
		return nil, fmt.Errorf("failed to insert export job: %w", err)
	}

	return r.GetJob(jobID)
}

func (r *JobsRepository) GetJob(id int) (*models.ExportJob, error) {
	var flat models.FlatExportJobRecord
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("id"),
			goqu.I("job_type"),
			goqu.I("status"),
			goqu.I("progress"),
			goqu.I("detail"),
			goqu.I("message"),
			goqu.I("created_at"),
			goqu.I("updated_at"),
		).
		From("export_jobs").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select export job: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("export job %d not found", id)
	}

	job := flat.TransformToJob()
	return &job, nil
}

func (r *JobsRepository) MarkOngoing(id int, progress int) error {
	return r.update(id, goqu.Record{
		"status":     string(models.JobStatusOngoing),
		"progress":   progress,
		"updated_at": time.Now(),
	})
}

func (r *JobsRepository) MarkDone(id int, message interface{}) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal job message: %w", err)
	}
	return r.update(id, goqu.Record{
		"status":     string(models.JobStatusDone),
		"progress":   100,
		"message":    messageJSON,
		"updated_at": time.Now(),
	})
}

func (r *JobsRepository) MarkError(id int, message interface{}) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal job message: %w", err)
	}
	return r.update(id, goqu.Record{
		"status":     string(models.JobStatusError),
		"progress":   100,
		"message":    messageJSON,
		"updated_at": time.Now(),
	})
}

func (r *JobsRepository) update(id int, record goqu.Record) error {
	query := r.repository.GoquDBWrapper.
		Update("export_jobs").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update export job %d: %w", id, err)
	}
	return nil
}

// Attach stores a produced file next to its job and bumps the job progress,
// both inside one transaction.
func (r *JobsRepository) Attach(jobID int, name string, content []byte, userID *int) (*models.JobAttachment, error) {
	attachment := models.JobAttachment{
		UUID:    uuid.NewString(),
		JobID:   jobID,
		Name:    name,
		Content: content,
	}

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		insert := tx.Insert("job_attachments").
			Rows(goqu.Record{
				"uuid":       attachment.UUID,
				"job_id":     attachment.JobID,
				"name":       attachment.Name,
				"content":    attachment.Content,
				"created_by": userID,
			}).
			Returning("id")

		if _, err := insert.Executor().ScanVal(&attachment.ID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				if pqErr.Code == "23503" {
					return custom_error.WrapDBError("export job for attachment", string(pqErr.Code))
				}
			}
			return fmt.Errorf("failed to insert job attachment: %w", err)
		}

		update := tx.Update("export_jobs").
			Set(goqu.Record{"progress": 90, "updated_at": time.Now()}).
			Where(goqu.Ex{"id": jobID})

		if _, err := update.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to update export job %d: %w", jobID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &attachment, nil
}

func (r *JobsRepository) GetAttachment(attachmentUUID string) (*models.JobAttachment, error) {
	var attachment models.JobAttachment
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("id").As("id"),
			goqu.I("uuid").As("uuid"),
			goqu.I("job_id").As("job_id"),
			goqu.I("name").As("name"),
			goqu.I("content").As("content"),
		).
		From("job_attachments").
		Where(goqu.Ex{"uuid": attachmentUUID})

	found, err := query.Executor().ScanStruct(&attachment)
	if err != nil {
		return nil, fmt.Errorf("unable to select job attachment: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("attachment %s not found", attachmentUUID)
	}

	return &attachment, nil
}
