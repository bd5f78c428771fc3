package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"logistics/internal/repository"
	"logistics/pkg/auditlog"
	"logistics/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockInventoryProvider struct {
	mock.Mock
}

func (m *MockInventoryProvider) GetInventoryByCode(code string) (*models.Inventory, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryProvider) GetInventoriesBy(conditions repository.QueryBuilder) ([]models.Inventory, error) {
	args := m.Called(conditions)
	return args.Get(0).([]models.Inventory), args.Error(1)
}

func (m *MockInventoryProvider) GetRelations(inventoryID int) ([]models.InventoryAssetRelation, error) {
	args := m.Called(inventoryID)
	return args.Get(0).([]models.InventoryAssetRelation), args.Error(1)
}

func (m *MockInventoryProvider) GetAssetIDsByPeriod(start, end time.Time) ([]int, error) {
	args := m.Called(start, end)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockInventoryProvider) HasOnGoingInventoriesBefore(end time.Time) (bool, error) {
	args := m.Called(end)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryProvider) GetAssetIDsByProject(projectContractID int) ([]int, error) {
	args := m.Called(projectContractID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockInventoryProvider) GetInventoriesForAssets(assetIDs []int) ([]models.Inventory, error) {
	args := m.Called(assetIDs)
	return args.Get(0).([]models.Inventory), args.Error(1)
}

func (m *MockInventoryProvider) GetFilteredRelations(inventoryID int, assetIDs []int, projectContractID *int) ([]models.InventoryAssetRelation, error) {
	args := m.Called(inventoryID, assetIDs, projectContractID)
	return args.Get(0).([]models.InventoryAssetRelation), args.Error(1)
}

type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) CreateJob(jobType string, detail interface{}) (*models.ExportJob, error) {
	args := m.Called(jobType, detail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportJob), args.Error(1)
}

func (m *MockJobStore) GetJob(id int) (*models.ExportJob, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportJob), args.Error(1)
}

func (m *MockJobStore) MarkOngoing(id int, progress int) error {
	args := m.Called(id, progress)
	return args.Error(0)
}

func (m *MockJobStore) MarkDone(id int, message interface{}) error {
	args := m.Called(id, message)
	return args.Error(0)
}

func (m *MockJobStore) MarkError(id int, message interface{}) error {
	args := m.Called(id, message)
	return args.Error(0)
}

func (m *MockJobStore) Attach(jobID int, name string, content []byte, userID *int) (*models.JobAttachment, error) {
	args := m.Called(jobID, name, content, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobAttachment), args.Error(1)
}

func (m *MockJobStore) GetAttachment(attachmentUUID string) (*models.JobAttachment, error) {
	args := m.Called(attachmentUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobAttachment), args.Error(1)
}

type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Log(action string, data interface{}, item auditlog.Auditable) {
	m.Called(action, data, item)
}

type MockHTMLConverter struct {
	mock.Mock
}

func (m *MockHTMLConverter) FromHTML(ctx context.Context, html []byte) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func exportTestInventory(id int, code string) *models.Inventory {
	return &models.Inventory{
		ID:    id,
		Code:  code,
		State: models.InventoryStateOnGoing,
		Premises: &models.Premises{
			ID:      3,
			Code:    "WH-PAR-01",
			Address: "12 rue des Entrepots, Paris",
			Place:   &models.Place{ID: 7, Name: "Paris"},
		},
		DateStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func exportTestRelations(inventoryID int) []models.InventoryAssetRelation {
	return []models.InventoryAssetRelation{
		{
			ID:          1,
			InventoryID: inventoryID,
			Asset:       models.Asset{ID: 11, Code: "AST-001", Model: "ThinkPad T14"},
			Condition:   "good",
		},
	}
}

func newTestExportService(repo InventoryProvider, jobs JobStore, converter HTMLConverter) *ExportService {
	audit := new(MockAuditLog)
	audit.On("Log", mock.Anything, mock.Anything, mock.Anything).Maybe()
	return NewExportService(repo, jobs, converter, audit, zap.NewNop())
}

func TestRunInventoryExportAttachesDocument(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	mockConverter := new(MockHTMLConverter)
	service := newTestExportService(mockRepo, mockJobs, mockConverter)

	inventory := exportTestInventory(5, "INV-2025-001")
	userID := 42

	mockJobs.On("MarkOngoing", 9, 10).Return(nil).Once()
	mockRepo.On("GetInventoryByCode", "INV-2025-001").Return(inventory, nil).Once()
	mockRepo.On("GetRelations", 5).Return(exportTestRelations(5), nil).Once()
	mockConverter.On("FromHTML", mock.Anything, mock.Anything).Return([]byte("%PDF-1.7"), nil).Once()
	mockJobs.On("Attach", 9, "inventory.pdf", []byte("%PDF-1.7"), &userID).
		Return(&models.JobAttachment{ID: 1, UUID: "a1b2", JobID: 9, Name: "inventory.pdf"}, nil).Once()
	mockJobs.On("MarkDone", 9, map[string]interface{}{"attach_uuid": "a1b2"}).Return(nil).Once()

	service.RunInventoryExport(context.Background(), 9, InventoryExportDetail{InventoryCode: "INV-2025-001"}, &userID)

	mockRepo.AssertExpectations(t)
	mockJobs.AssertExpectations(t)
	mockConverter.AssertExpectations(t)
}

func TestRunInventoryExportUnknownCodeMarksError(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	mockConverter := new(MockHTMLConverter)
	service := newTestExportService(mockRepo, mockJobs, mockConverter)

	mockJobs.On("MarkOngoing", 4, 10).Return(nil).Once()
	mockRepo.On("GetInventoryByCode", "MISSING").Return(nil, nil).Once()
	mockJobs.On("MarkError", 4, map[string]interface{}{"message": ErrInventoryNotFound.Error()}).Return(nil).Once()

	service.RunInventoryExport(context.Background(), 4, InventoryExportDetail{InventoryCode: "MISSING"}, nil)

	mockRepo.AssertExpectations(t)
	mockJobs.AssertExpectations(t)
	mockConverter.AssertNotCalled(t, "FromHTML", mock.Anything, mock.Anything)
}

func TestRunInventoryExportConverterFailureMarksError(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	mockConverter := new(MockHTMLConverter)
	service := newTestExportService(mockRepo, mockJobs, mockConverter)

	inventory := exportTestInventory(5, "INV-2025-001")

	mockJobs.On("MarkOngoing", 4, 10).Return(nil).Once()
	mockRepo.On("GetInventoryByCode", "INV-2025-001").Return(inventory, nil).Once()
	mockRepo.On("GetRelations", 5).Return(exportTestRelations(5), nil).Once()
	mockConverter.On("FromHTML", mock.Anything, mock.Anything).
		Return(nil, errors.New("conversion service unavailable")).Once()
	mockJobs.On("MarkError", 4, mock.Anything).Return(nil).Once()

	service.RunInventoryExport(context.Background(), 4, InventoryExportDetail{InventoryCode: "INV-2025-001"}, nil)

	mockJobs.AssertExpectations(t)
	mockJobs.AssertNotCalled(t, "Attach", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuildBatchArchivePeriod(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	mockConverter := new(MockHTMLConverter)
	service := newTestExportService(mockRepo, mockJobs, mockConverter)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	assetIDs := []int{11, 12}

	first := exportTestInventory(1, "INV-A")
	second := exportTestInventory(2, "INV-B")

	mockRepo.On("GetAssetIDsByPeriod", start, end).Return(assetIDs, nil).Once()
	mockRepo.On("GetInventoriesForAssets", assetIDs).Return([]models.Inventory{*first, *second}, nil).Once()
	mockRepo.On("GetFilteredRelations", 1, assetIDs, (*int)(nil)).Return(exportTestRelations(1), nil).Once()
	// the second inventory matched no assets, so no document for it
	mockRepo.On("GetFilteredRelations", 2, assetIDs, (*int)(nil)).Return([]models.InventoryAssetRelation{}, nil).Once()
	mockConverter.On("FromHTML", mock.Anything, mock.Anything).Return([]byte("%PDF-1.7"), nil).Once()

	archive, err := service.buildBatchArchive(context.Background(), BatchExportDetail{
		Type:      "period",
		StartDate: "2025-01-01",
		EndDate:   "2025-03-31",
	})

	assert.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	assert.NoError(t, err)
	assert.Len(t, reader.File, 1)
	assert.Equal(t, "inventory_INV-A.pdf", reader.File[0].Name)

	mockRepo.AssertExpectations(t)
	mockConverter.AssertExpectations(t)
}

func TestBuildBatchArchiveOnlyInProgress(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	service := newTestExportService(mockRepo, new(MockJobStore), new(MockHTMLConverter))

	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	mockRepo.On("GetAssetIDsByPeriod", mock.Anything, end).Return([]int{}, nil).Once()
	mockRepo.On("HasOnGoingInventoriesBefore", end).Return(true, nil).Once()

	_, err := service.buildBatchArchive(context.Background(), BatchExportDetail{
		Type:      "period",
		StartDate: "2025-01-01",
		EndDate:   "2025-03-31",
	})

	assert.ErrorIs(t, err, ErrOnlyInProgress)
	mockRepo.AssertExpectations(t)
}

func TestBuildBatchArchiveNothingToExport(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	service := newTestExportService(mockRepo, new(MockJobStore), new(MockHTMLConverter))

	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	mockRepo.On("GetAssetIDsByPeriod", mock.Anything, end).Return([]int{}, nil).Once()
	mockRepo.On("HasOnGoingInventoriesBefore", end).Return(false, nil).Once()

	_, err := service.buildBatchArchive(context.Background(), BatchExportDetail{
		Type:      "period",
		StartDate: "2025-01-01",
		EndDate:   "2025-03-31",
	})

	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestBuildBatchArchiveProjectRequiresContract(t *testing.T) {
	service := newTestExportService(new(MockInventoryProvider), new(MockJobStore), new(MockHTMLConverter))

	_, err := service.buildBatchArchive(context.Background(), BatchExportDetail{Type: "project"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "current_project_contract_id is required")
}

func TestBuildBatchArchiveInvalidType(t *testing.T) {
	service := newTestExportService(new(MockInventoryProvider), new(MockJobStore), new(MockHTMLConverter))

	_, err := service.buildBatchArchive(context.Background(), BatchExportDetail{Type: "everything"})

	assert.ErrorIs(t, err, ErrInvalidExportType)
}

func TestBuildBatchArchiveInvalidDates(t *testing.T) {
	service := newTestExportService(new(MockInventoryProvider), new(MockJobStore), new(MockHTMLConverter))

	_, err := service.buildBatchArchive(context.Background(), BatchExportDetail{
		Type:      "period",
		StartDate: "03/01/2025",
		EndDate:   "2025-03-31",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start_date")
}

func TestRunInventoryExportWritesAuditEntry(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	mockConverter := new(MockHTMLConverter)
	audit := new(MockAuditLog)
	service := NewExportService(mockRepo, mockJobs, mockConverter, audit, zap.NewNop())

	inventory := exportTestInventory(5, "INV-2025-001")

	mockJobs.On("MarkOngoing", 9, 10).Return(nil).Once()
	mockRepo.On("GetInventoryByCode", "INV-2025-001").Return(inventory, nil).Once()
	mockRepo.On("GetRelations", 5).Return(exportTestRelations(5), nil).Once()
	mockConverter.On("FromHTML", mock.Anything, mock.Anything).Return([]byte("%PDF-1.7"), nil).Once()
	mockJobs.On("Attach", 9, "inventory.pdf", mock.Anything, (*int)(nil)).
		Return(&models.JobAttachment{ID: 1, UUID: "a1b2"}, nil).Once()
	mockJobs.On("MarkDone", 9, mock.Anything).Return(nil).Once()
	audit.On("Log", "export_done", mock.Anything, inventory).Once()

	service.RunInventoryExport(context.Background(), 9, InventoryExportDetail{InventoryCode: "INV-2025-001"}, nil)

	audit.AssertExpectations(t)
}

func TestRunBatchExportWritesAuditEntry(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	mockConverter := new(MockHTMLConverter)
	audit := new(MockAuditLog)
	service := NewExportService(mockRepo, mockJobs, mockConverter, audit, zap.NewNop())

	assetIDs := []int{11}
	inventory := exportTestInventory(1, "INV-A")

	mockJobs.On("MarkOngoing", 12, 10).Return(nil).Once()
	mockRepo.On("GetAssetIDsByPeriod", mock.Anything, mock.Anything).Return(assetIDs, nil).Once()
	mockRepo.On("GetInventoriesForAssets", assetIDs).Return([]models.Inventory{*inventory}, nil).Once()
	mockRepo.On("GetFilteredRelations", 1, assetIDs, (*int)(nil)).Return(exportTestRelations(1), nil).Once()
	mockConverter.On("FromHTML", mock.Anything, mock.Anything).Return([]byte("%PDF-1.7"), nil).Once()
	mockJobs.On("Attach", 12, "inventories_export.zip", mock.Anything, (*int)(nil)).
		Return(&models.JobAttachment{ID: 2, UUID: "c3d4"}, nil).Once()
	mockJobs.On("MarkDone", 12, mock.Anything).Return(nil).Once()
	audit.On("Log", "export_done", mock.Anything, &models.ExportJob{ID: 12}).Once()

	service.RunBatchExport(context.Background(), 12, BatchExportDetail{
		Type:      "period",
		StartDate: "2025-01-01",
		EndDate:   "2025-03-31",
	}, nil)

	audit.AssertExpectations(t)
	mockJobs.AssertExpectations(t)
}

func TestFailedExportWritesAuditEntry(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	mockJobs := new(MockJobStore)
	audit := new(MockAuditLog)
	service := NewExportService(mockRepo, mockJobs, new(MockHTMLConverter), audit, zap.NewNop())

	mockJobs.On("MarkOngoing", 4, 10).Return(nil).Once()
	mockRepo.On("GetInventoryByCode", "MISSING").Return(nil, nil).Once()
	mockJobs.On("MarkError", 4, mock.Anything).Return(nil).Once()
	audit.On("Log", "export_failed", mock.Anything, &models.ExportJob{ID: 4}).Once()

	service.RunInventoryExport(context.Background(), 4, InventoryExportDetail{InventoryCode: "MISSING"}, nil)

	audit.AssertExpectations(t)
}

func TestListInventoriesBuildsConditions(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	service := newTestExportService(mockRepo, new(MockJobStore), new(MockHTMLConverter))

	aliases := map[string]string{"state": "inv.state", "premises_code": "p.code"}

	mockRepo.On("GetInventoriesBy", mock.MatchedBy(func(conditions repository.QueryBuilder) bool {
		built := conditions.BuildConditions(aliases)
		return built["inv.state"] == "validated" && built["p.code"] == "WH-PAR-01"
	})).Return([]models.Inventory{*exportTestInventory(5, "INV-2025-001")}, nil).Once()

	inventories, err := service.ListInventories("validated", "WH-PAR-01")

	assert.NoError(t, err)
	assert.Len(t, inventories, 1)
	assert.Equal(t, "INV-2025-001", inventories[0].Code)
	mockRepo.AssertExpectations(t)
}

func TestListInventoriesWithoutFilters(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	service := newTestExportService(mockRepo, new(MockJobStore), new(MockHTMLConverter))

	mockRepo.On("GetInventoriesBy", mock.MatchedBy(func(conditions repository.QueryBuilder) bool {
		return len(conditions.BuildConditions(nil)) == 0
	})).Return([]models.Inventory{}, nil).Once()

	inventories, err := service.ListInventories("", "")

	assert.NoError(t, err)
	assert.Empty(t, inventories)
}

func TestBuildInventoryDocumentUsesExplicitRelations(t *testing.T) {
	mockRepo := new(MockInventoryProvider)
	service := newTestExportService(mockRepo, new(MockJobStore), new(MockHTMLConverter))

	inventory := exportTestInventory(5, "INV-2025-001")
	relations := exportTestRelations(5)

	html, err := service.BuildInventoryDocument(inventory, relations, "en")

	assert.NoError(t, err)
	assert.Contains(t, string(html), "AST-001")
	// the stored collection must not be consulted when relations are given
	mockRepo.AssertNotCalled(t, "GetRelations", mock.Anything)
}
