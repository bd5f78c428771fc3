package exports

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"logistics/internal/rate_limiter"
	"logistics/pkg/models"
	"logistics/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditTrail reads back recorded audit entries.
type AuditTrail interface {
	Logs(resourceType string, resourceID int) ([]models.AuditLog, error)
}

type Handler struct {
	service     *ExportService
	jobs        JobStore
	trail       AuditTrail
	rateLimiter *rate_limiter.RateLimiter
	logger      *zap.Logger
}

func NewHandler(service *ExportService, jobs JobStore, trail AuditTrail, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		jobs:    jobs,
		trail:   trail,
		// document rendering is expensive, keep job starts bounded
		rateLimiter: rate_limiter.NewRateLimiter(15, time.Minute),
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/inventories", security.Authorize("user"), h.listInventories)
		protectedRoutes.GET("/inventories/:code/report.html", security.Authorize("user"), h.previewInventoryReport)
		protectedRoutes.GET("/inventories/:code/history", security.Authorize("moderator"), h.inventoryHistory)
		protectedRoutes.POST("/inventories/:code/export", security.Authorize("user"), h.startInventoryExport)
		protectedRoutes.POST("/inventories/export", security.Authorize("moderator"), h.startBatchExport)
		protectedRoutes.GET("/jobs/:id", security.Authorize("user"), h.getJob)
		protectedRoutes.GET("/attachments/:uuid", security.Authorize("user"), h.downloadAttachment)
	}
}

// listInventories returns the inventories matching the optional state and
// premises_code query filters.
func (h *Handler) listInventories(c *gin.Context) {
	inventories, err := h.service.ListInventories(c.Query("state"), c.Query("premises_code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list inventories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, inventories)
}

// inventoryHistory returns the export audit trail for one inventory.
func (h *Handler) inventoryHistory(c *gin.Context) {
	inventory, err := h.service.FindInventory(c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrInventoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate inventory with given code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch inventory", "details": err.Error()})
		return
	}

	logs, err := h.trail.Logs("inventory", inventory.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch inventory history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// previewInventoryReport returns the document markup directly, without the
// pagination driver. Useful for layout review in a browser.
func (h *Handler) previewInventoryReport(c *gin.Context) {
	code := c.Param("code")
	locale := c.DefaultQuery("locale", "en")

	html, err := h.service.BuildInventoryDocumentByCode(code, locale)
	if err != nil {
		if errors.Is(err, ErrInventoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate inventory with given code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render inventory report", "details": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *Handler) startInventoryExport(c *gin.Context) {
	if !h.rateLimiter.IsAllowed(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many export requests, try again later"})
		return
	}

	detail := InventoryExportDetail{
		InventoryCode: c.Param("code"),
		Locale:        c.DefaultQuery("locale", "en"),
	}

	userID, err := security.GetUserIDFromToken(c)
	if err != nil {
		h.logger.Warn("export started without resolvable user", zap.Error(err))
	}

	job, err := h.jobs.CreateJob(JobTypeInventoryExport, detail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create export job", "details": err.Error()})
		return
	}

	go h.service.RunInventoryExport(context.Background(), job.ID, detail, userID)

	c.JSON(http.StatusAccepted, job)
}

func (h *Handler) startBatchExport(c *gin.Context) {
	if !h.rateLimiter.IsAllowed(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many export requests, try again later"})
		return
	}

	var detail BatchExportDetail
	if err := c.ShouldBindJSON(&detail); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if detail.Type != "period" && detail.Type != "project" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrInvalidExportType.Error()})
		return
	}

	userID, err := security.GetUserIDFromToken(c)
	if err != nil {
		h.logger.Warn("export started without resolvable user", zap.Error(err))
	}

	job, err := h.jobs.CreateJob(JobTypeInventoriesExport, detail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create export job", "details": err.Error()})
		return
	}

	go h.service.RunBatchExport(context.Background(), job.ID, detail, userID)

	c.JSON(http.StatusAccepted, job)
}

func (h *Handler) getJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind job id"})
		return
	}

	job, err := h.jobs.GetJob(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate export job", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) downloadAttachment(c *gin.Context) {
	attachment, err := h.jobs.GetAttachment(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate attachment", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+attachment.Name+"\"")
	c.Data(http.StatusOK, "application/octet-stream", attachment.Content)
}
