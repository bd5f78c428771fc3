package exports

import (
	"logistics/internal/jobs"
	"logistics/internal/repository"
	"logistics/pkg/auditlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes wires the export feature onto the router and returns the
// service so sibling features (e.g. the spreadsheet summary) can reuse it.
func RegisterRoutes(router *gin.Engine, r *repository.Repository, converter HTMLConverter, auditLog *auditlog.Auditlog, logger *zap.Logger) *ExportService {
	exportsRepo := NewRepository(r)
	jobsRepo := jobs.NewRepository(r)
	service := NewExportService(exportsRepo, jobsRepo, converter, auditLog, logger)

	handler := NewHandler(service, jobsRepo, auditLog, logger)
	handler.RegisterRoutes(router)

	return service
}
