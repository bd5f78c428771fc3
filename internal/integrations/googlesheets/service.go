package googlesheets

import (
	"fmt"

	"logistics/internal/report"

	"google.golang.org/api/sheets/v4"
)

// InventorySummaryService pushes a flat summary of a rendered inventory to
// the logistics tracking spreadsheet, one row per asset relation.
type InventorySummaryService struct {
	sheetsService *sheets.Service
}

func NewInventorySummaryService(sheetsService *sheets.Service) *InventorySummaryService {
	return &InventorySummaryService{
		sheetsService: sheetsService,
	}
}

var summaryHeader = []interface{}{
	"Inventory", "Place", "Premises", "Asset code", "Model", "Condition",
	"Room", "Project", "Associated user", "Presence", "Comments",
}

// AppendInventorySummary appends the inventory's rows after the current
// content of the sheet. The header row is written only when the sheet is
// still empty.
func (s *InventorySummaryService) AppendInventorySummary(spreadsheetID string, model *report.Model) error {
	empty, err := s.sheetIsEmpty(spreadsheetID)
	if err != nil {
		return err
	}

	var rows [][]interface{}
	if empty {
		rows = append(rows, summaryHeader)
	}

	for _, row := range model.Rows {
		rows = append(rows, []interface{}{
			model.InventoryCode,
			model.PlaceName,
			model.PremisesCode,
			row.AssetCode,
			row.AssetModel,
			row.ConditionLabel,
			row.RoomName,
			row.ProjectCode,
			row.StaffName,
			row.Presence,
			row.Comments,
		})
	}

	if len(rows) == 0 {
		return nil
	}

	valueRange := &sheets.ValueRange{Values: rows}
	_, err = s.sheetsService.Spreadsheets.Values.
		Append(spreadsheetID, "A1", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("unable to append inventory summary: %w", err)
	}

	return nil
}

func (s *InventorySummaryService) sheetIsEmpty(spreadsheetID string) (bool, error) {
	resp, err := s.sheetsService.Spreadsheets.Values.Get(spreadsheetID, "A1:A1").Do()
	if err != nil {
		return false, fmt.Errorf("unable to read spreadsheet: %w", err)
	}
	return len(resp.Values) == 0, nil
}
