package report

import (
	"testing"
	"time"

	custom_error "logistics/pkg/errors"
	"logistics/pkg/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func testInventory() *models.Inventory {
	created := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return &models.Inventory{
		ID:        1,
		Code:      "INV-1",
		State:     models.InventoryStateOnGoing,
		CreatedAt: created,
		DateStart: created,
		CreatedBy: &models.User{ID: 10, Email: "creator@example.org"},
		Premises: &models.Premises{
			ID:      5,
			Code:    "P1",
			Address: "1 Rd",
			Place:   &models.Place{ID: 2, Name: "Warehouse A"},
		},
	}
}

func TestAssembleRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		inventory *models.Inventory
		wantField string
	}{
		{"nil inventory", nil, "inventory"},
		{"missing premises", &models.Inventory{Code: "INV-9"}, "premises"},
		{"missing place", &models.Inventory{Code: "INV-9", Premises: &models.Premises{Code: "P9"}}, "premises.place"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.inventory, nil, "en")
			assert.Error(t, err)
			var missing *custom_error.MissingFieldError
			assert.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantField, missing.Field)
		})
	}
}

func TestAssembleOrdersRelationsByID(t *testing.T) {
	inventory := testInventory()
	inventory.Relations = []models.InventoryAssetRelation{
		{ID: 30, Asset: models.Asset{Code: "A-30"}, Condition: "good"},
		{ID: 10, Asset: models.Asset{Code: "A-10"}, Condition: "good"},
		{ID: 20, Asset: models.Asset{Code: "A-20"}, Condition: "good"},
	}

	model, err := Assemble(inventory, nil, "en")
	assert.NoError(t, err)
	assert.Len(t, model.Rows, 3)
	assert.Equal(t, "A-10", model.Rows[0].AssetCode)
	assert.Equal(t, "A-20", model.Rows[1].AssetCode)
	assert.Equal(t, "A-30", model.Rows[2].AssetCode)

	// the inventory's own collection is left untouched
	assert.Equal(t, 30, inventory.Relations[0].ID)
}

func TestAssembleExplicitRelationsAreAuthoritative(t *testing.T) {
	inventory := testInventory()
	inventory.Relations = []models.InventoryAssetRelation{
		{ID: 1, Asset: models.Asset{Code: "A-1"}},
		{ID: 2, Asset: models.Asset{Code: "A-2"}},
		{ID: 3, Asset: models.Asset{Code: "A-3"}},
	}

	subset := []models.InventoryAssetRelation{
		{ID: 3, Asset: models.Asset{Code: "A-3"}},
		{ID: 1, Asset: models.Asset{Code: "A-1"}},
	}

	model, err := Assemble(inventory, subset, "en")
	assert.NoError(t, err)
	assert.Len(t, model.Rows, 2)
	assert.Equal(t, "A-3", model.Rows[0].AssetCode)
	assert.Equal(t, "A-1", model.Rows[1].AssetCode)
}

func TestAssembleEmptyRelationListIsValid(t *testing.T) {
	model, err := Assemble(testInventory(), []models.InventoryAssetRelation{}, "en")
	assert.NoError(t, err)
	assert.Empty(t, model.Rows)
}

func TestAssembleRowDefaults(t *testing.T) {
	inventory := testInventory()
	relations := []models.InventoryAssetRelation{
		{
			ID:        1,
			Asset:     models.Asset{Code: "A-1", Model: "ThinkPad T14"},
			Condition: "good",
		},
	}

	model, err := Assemble(inventory, relations, "en")
	assert.NoError(t, err)

	row := model.Rows[0]
	assert.Equal(t, "A-1", row.AssetCode)
	assert.Equal(t, "ThinkPad T14", row.AssetModel)
	assert.Equal(t, "Good", row.ConditionLabel)
	assert.Equal(t, "", row.RoomName)
	assert.Equal(t, "", row.ProjectCode)
	assert.Equal(t, "", row.StaffName)
	assert.Equal(t, "", row.Presence)
	assert.Equal(t, "", row.Comments)
}

func TestAssembleRowResolvedChains(t *testing.T) {
	inventory := testInventory()
	relations := []models.InventoryAssetRelation{
		{
			ID: 1,
			Asset: models.Asset{
				Code:                   "A-1",
				Model:                  "Hilux",
				CurrentProjectContract: &models.ProjectContract{CodeProject: "PRJ-77"},
				CurrentStaff:           &models.Staff{GivenName: "Jane", Surname: "Doe"},
			},
			Condition: "medium",
			Room:      &models.Room{Name: "R2"},
			Presence:  strPtr("present"),
			Comments:  strPtr("scratched"),
		},
	}

	model, err := Assemble(inventory, relations, "en")
	assert.NoError(t, err)

	row := model.Rows[0]
	assert.Equal(t, "Medium", row.ConditionLabel)
	assert.Equal(t, "R2", row.RoomName)
	assert.Equal(t, "PRJ-77", row.ProjectCode)
	assert.Equal(t, "Jane Doe", row.StaffName)
	assert.Equal(t, "present", row.Presence)
	assert.Equal(t, "scratched", row.Comments)
}

func TestStaffDisplayNameHalves(t *testing.T) {
	tests := []struct {
		name     string
		staff    *models.Staff
		expected string
	}{
		{"both halves", &models.Staff{GivenName: "Jane", Surname: "Doe"}, "Jane Doe"},
		{"given name only", &models.Staff{GivenName: "Jane"}, "Jane"},
		{"surname only", &models.Staff{Surname: "Doe"}, "Doe"},
		{"no staff", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, staffDisplayName(tt.staff))
		})
	}
}

func TestAssembleValidationGating(t *testing.T) {
	inventory := testInventory()

	model, err := Assemble(inventory, nil, "en")
	assert.NoError(t, err)
	assert.Equal(t, "", model.ValidatedByEmail)
	assert.Equal(t, "", model.ValidatedOnLabel)

	validatedAt := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	inventory.ValidatedAt = &validatedAt
	inventory.ValidatedBy = &models.User{ID: 11, Email: "validator@example.org"}

	model, err = Assemble(inventory, nil, "en")
	assert.NoError(t, err)
	assert.Equal(t, "validator@example.org", model.ValidatedByEmail)
	assert.Equal(t, "March 10, 2025", model.ValidatedOnLabel)
}

func TestAssembleHeaderFacts(t *testing.T) {
	inventory := testInventory()
	dateEnd := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	inventory.DateEnd = &dateEnd

	model, err := Assemble(inventory, nil, "en")
	assert.NoError(t, err)
	assert.Equal(t, "Warehouse A", model.PlaceName)
	assert.Equal(t, "P1", model.PremisesCode)
	assert.Equal(t, "1 Rd", model.PremisesAddress)
	assert.Equal(t, "INV-1", model.InventoryCode)
	assert.Equal(t, "March 9, 2025", model.DateRangeLabel)
	assert.Equal(t, "creator@example.org", model.CreatedByEmail)
	assert.Equal(t, "March 3, 2025", model.CreatedOnLabel)
}
