package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"logistics/internal/report"
	"logistics/internal/repository"
	"logistics/pkg/auditlog"
	"logistics/pkg/models"

	"go.uber.org/zap"
)

var (
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrOnlyInProgress    = errors.New("only inventories in progress in the specified period")
	ErrNothingToExport   = errors.New("no inventory documents to export for selected criteria")
	ErrInvalidExportType = errors.New("invalid export type: choose either 'period' or 'project'")
)

const (
	JobTypeInventoryExport   = "inventory_export"
	JobTypeInventoriesExport = "inventories_export"
)

// InventoryProvider is the read side the export service needs.
type InventoryProvider interface {
	GetInventoryByCode(code string) (*models.Inventory, error)
	GetInventoriesBy(conditions repository.QueryBuilder) ([]models.Inventory, error)
	GetRelations(inventoryID int) ([]models.InventoryAssetRelation, error)
	GetAssetIDsByPeriod(start, end time.Time) ([]int, error)
	HasOnGoingInventoriesBefore(end time.Time) (bool, error)
	GetAssetIDsByProject(projectContractID int) ([]int, error)
	GetInventoriesForAssets(assetIDs []int) ([]models.Inventory, error)
	GetFilteredRelations(inventoryID int, assetIDs []int, projectContractID *int) ([]models.InventoryAssetRelation, error)
}

// JobStore tracks long-running exports and their produced files.
type JobStore interface {
	CreateJob(jobType string, detail interface{}) (*models.ExportJob, error)
	GetJob(id int) (*models.ExportJob, error)
	MarkOngoing(id int, progress int) error
	MarkDone(id int, message interface{}) error
	MarkError(id int, message interface{}) error
	Attach(jobID int, name string, content []byte, userID *int) (*models.JobAttachment, error)
	GetAttachment(attachmentUUID string) (*models.JobAttachment, error)
}

// HTMLConverter is the external pagination/print driver: it accepts the
// styled markup and produces the final paged document bytes.
type HTMLConverter interface {
	FromHTML(ctx context.Context, html []byte) ([]byte, error)
}

// AuditLogger records export lifecycle events.
type AuditLogger interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

// InventoryExportDetail parametrizes a single-inventory export job.
type InventoryExportDetail struct {
	InventoryCode string `json:"inventory_code"`
	Locale        string `json:"locale,omitempty"`
}

// BatchExportDetail parametrizes a multi-inventory export job.
type BatchExportDetail struct {
	Type              string `json:"type"` // "period" or "project"
	StartDate         string `json:"start_date,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	ProjectContractID *int   `json:"current_project_contract_id,omitempty"`
	Locale            string `json:"locale,omitempty"`
}

type ExportService struct {
	repo      InventoryProvider
	jobs      JobStore
	converter HTMLConverter
	auditLog  AuditLogger
	logger    *zap.Logger
}

func NewExportService(repo InventoryProvider, jobs JobStore, converter HTMLConverter, auditLog AuditLogger, logger *zap.Logger) *ExportService {
	return &ExportService{
		repo:      repo,
		jobs:      jobs,
		converter: converter,
		auditLog:  auditLog,
		logger:    logger,
	}
}

// BuildInventoryDocument fetches an inventory with its relations and renders
// the document markup. An explicit relations slice overrides the stored
// collection for partial reprints; pass nil for the full report.
func (s *ExportService) BuildInventoryDocument(inventory *models.Inventory, relations []models.InventoryAssetRelation, locale string) ([]byte, error) {
	if relations == nil && inventory != nil {
		fetched, err := s.repo.GetRelations(inventory.ID)
		if err != nil {
			return nil, err
		}
		relations = fetched
	}

	model, err := report.Assemble(inventory, relations, locale)
	if err != nil {
		return nil, err
	}
	return report.Render(model)
}

// FindInventory fetches one inventory by its code.
func (s *ExportService) FindInventory(code string) (*models.Inventory, error) {
	inventory, err := s.repo.GetInventoryByCode(code)
	if err != nil {
		return nil, err
	}
	if inventory == nil {
		return nil, ErrInventoryNotFound
	}
	return inventory, nil
}

// ListInventories returns the inventories matching the optional state and
// premises-code filters.
func (s *ExportService) ListInventories(state, premisesCode string) ([]models.Inventory, error) {
	conditions := repository.NewQueryBuilder()
	if state != "" {
		conditions.AddCondition("state", state)
	}
	if premisesCode != "" {
		conditions.AddCondition("premises_code", premisesCode)
	}
	return s.repo.GetInventoriesBy(conditions)
}

// BuildInventoryModelByCode assembles the render-ready model without
// rendering it, for consumers that want the projected rows rather than the
// document (e.g. the spreadsheet summary).
func (s *ExportService) BuildInventoryModelByCode(code string, locale string) (*report.Model, error) {
	inventory, err := s.FindInventory(code)
	if err != nil {
		return nil, err
	}
	relations, err := s.repo.GetRelations(inventory.ID)
	if err != nil {
		return nil, err
	}
	return report.Assemble(inventory, relations, locale)
}

// BuildInventoryDocumentByCode is the direct HTML preview path.
func (s *ExportService) BuildInventoryDocumentByCode(code string, locale string) ([]byte, error) {
	model, err := s.BuildInventoryModelByCode(code, locale)
	if err != nil {
		return nil, err
	}
	return report.Render(model)
}

// RunInventoryExport executes a single-inventory export job: render, convert
// to the paged format, attach the result. Any failure lands on the job
// record, never panics the caller.
func (s *ExportService) RunInventoryExport(ctx context.Context, jobID int, detail InventoryExportDetail, userID *int) {
	if err := s.jobs.MarkOngoing(jobID, 10); err != nil {
		s.logger.Error("failed to mark export job ongoing", zap.Int("job_id", jobID), zap.Error(err))
	}

	locale := detail.Locale
	if locale == "" {
		locale = "en"
	}

	inventory, err := s.repo.GetInventoryByCode(detail.InventoryCode)
	if err == nil && inventory == nil {
		err = ErrInventoryNotFound
	}

	var pdf []byte
	if err == nil {
		var html []byte
		html, err = s.BuildInventoryDocument(inventory, nil, locale)
		if err == nil {
			pdf, err = s.converter.FromHTML(ctx, html)
		}
	}

	if err != nil {
		s.failJob(jobID, err)
		return
	}

	attachment, err := s.jobs.Attach(jobID, "inventory.pdf", pdf, userID)
	if err != nil {
		s.failJob(jobID, err)
		return
	}

	if err := s.jobs.MarkDone(jobID, map[string]interface{}{"attach_uuid": attachment.UUID}); err != nil {
		s.logger.Error("failed to mark export job done", zap.Int("job_id", jobID), zap.Error(err))
		return
	}

	s.auditLog.Log(
		"export_done",
		map[string]interface{}{
			"job_id": jobID,
			"msg":    "Inventory document exported",
		},
		inventory,
	)
}

// RunBatchExport executes a period or project export job: one rendered
// document per matched inventory, zipped together.
func (s *ExportService) RunBatchExport(ctx context.Context, jobID int, detail BatchExportDetail, userID *int) {
	if err := s.jobs.MarkOngoing(jobID, 10); err != nil {
		s.logger.Error("failed to mark export job ongoing", zap.Int("job_id", jobID), zap.Error(err))
	}

	archive, err := s.buildBatchArchive(ctx, detail)
	if err != nil {
		s.failJob(jobID, err)
		return
	}

	attachment, err := s.jobs.Attach(jobID, "inventories_export.zip", archive, userID)
	if err != nil {
		s.failJob(jobID, err)
		return
	}

	if err := s.jobs.MarkDone(jobID, map[string]interface{}{"attach_uuid": attachment.UUID}); err != nil {
		s.logger.Error("failed to mark export job done", zap.Int("job_id", jobID), zap.Error(err))
	}

	s.auditLog.Log(
		"export_done",
		map[string]interface{}{
			"job_id": jobID,
			"type":   detail.Type,
			"msg":    "Inventory batch exported",
		},
		&models.ExportJob{ID: jobID},
	)
}

func (s *ExportService) buildBatchArchive(ctx context.Context, detail BatchExportDetail) ([]byte, error) {
	locale := detail.Locale
	if locale == "" {
		locale = "en"
	}

	assetIDs, err := s.selectAssets(detail)
	if err != nil {
		return nil, err
	}
	if len(assetIDs) == 0 {
		return nil, ErrNothingToExport
	}

	inventories, err := s.repo.GetInventoriesForAssets(assetIDs)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)
	documents := 0

	for i := range inventories {
		inventory := &inventories[i]

		relations, err := s.repo.GetFilteredRelations(inventory.ID, assetIDs, detail.ProjectContractID)
		if err != nil {
			return nil, err
		}
		if len(relations) == 0 {
			continue
		}

		html, err := s.BuildInventoryDocument(inventory, relations, locale)
		if err != nil {
			return nil, err
		}
		pdf, err := s.converter.FromHTML(ctx, html)
		if err != nil {
			return nil, err
		}

		entry, err := zipWriter.Create(fmt.Sprintf("inventory_%s.pdf", inventory.Code))
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry: %w", err)
		}
		if _, err := entry.Write(pdf); err != nil {
			return nil, fmt.Errorf("failed to write zip entry: %w", err)
		}
		documents++
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip archive: %w", err)
	}
	if documents == 0 {
		return nil, ErrNothingToExport
	}

	return buf.Bytes(), nil
}

func (s *ExportService) selectAssets(detail BatchExportDetail) ([]int, error) {
	switch detail.Type {
	case "period":
		start, err := time.Parse("2006-01-02", detail.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		end, err := time.Parse("2006-01-02", detail.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}

		assetIDs, err := s.repo.GetAssetIDsByPeriod(start, end)
		if err != nil {
			return nil, err
		}
		if len(assetIDs) == 0 {
			onGoing, err := s.repo.HasOnGoingInventoriesBefore(end)
			if err != nil {
				return nil, err
			}
			if onGoing {
				return nil, ErrOnlyInProgress
			}
		}
		return assetIDs, nil

	case "project":
		if detail.ProjectContractID == nil {
			return nil, fmt.Errorf("current_project_contract_id is required for project exports")
		}
		return s.repo.GetAssetIDsByProject(*detail.ProjectContractID)

	default:
		return nil, ErrInvalidExportType
	}
}

func (s *ExportService) failJob(jobID int, cause error) {
	s.logger.Error("export job failed", zap.Int("job_id", jobID), zap.Error(cause))
	if err := s.jobs.MarkError(jobID, map[string]interface{}{"message": cause.Error()}); err != nil {
		s.logger.Error("failed to mark export job as errored", zap.Int("job_id", jobID), zap.Error(err))
	}

	s.auditLog.Log(
		"export_failed",
		map[string]interface{}{
			"job_id":  jobID,
			"message": cause.Error(),
		},
		&models.ExportJob{ID: jobID},
	)
}
