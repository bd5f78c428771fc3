package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"logistics/internal/exports"
	"logistics/pkg/security"

	"google.golang.org/api/sheets/v4"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleSheetsHandler struct {
	summaryService *InventorySummaryService
	exportService  *exports.ExportService
	spreadsheetID  string
}

func NewGoogleSheetsHandler(exportService *exports.ExportService) (*GoogleSheetsHandler, error) {
	ctx := context.Background()

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	if credentialsJSON == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_CREDENTIALS_JSON is not set")
	}

	spreadsheetID := os.Getenv("INVENTORY_SUMMARY_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("INVENTORY_SUMMARY_SPREADSHEET_ID is not set")
	}

	credentials, err := google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to load google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("unable to create google sheets client: %w", err)
	}

	return &GoogleSheetsHandler{
		summaryService: NewInventorySummaryService(sheetsService),
		exportService:  exportService,
		spreadsheetID:  spreadsheetID,
	}, nil
}

func (h *GoogleSheetsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/inventories/:code/sheet", security.Authorize("moderator"), h.pushInventorySummary)
}

func (h *GoogleSheetsHandler) pushInventorySummary(c *gin.Context) {
	code := c.Param("code")
	locale := c.DefaultQuery("locale", "en")

	model, err := h.exportService.BuildInventoryModelByCode(code, locale)
	if err != nil {
		if errors.Is(err, exports.ErrInventoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate inventory with given code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to build inventory summary", "details": err.Error()})
		return
	}

	if err := h.summaryService.AppendInventorySummary(h.spreadsheetID, model); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to push inventory summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory summary pushed", "rows": len(model.Rows)})
}
