package report

import (
	"sort"
	"strings"

	custom_error "logistics/pkg/errors"
	"logistics/pkg/metadata"
	"logistics/pkg/models"
)

// Model is the render-ready projection of one inventory. Every field is a
// plain display string with its default already applied, so the renderer has
// no data-shaping logic left to do.
type Model struct {
	Locale string

	PlaceName       string
	PremisesCode    string
	PremisesAddress string

	InventoryCode  string
	InventoryURL   string
	DateRangeLabel string // empty while the inventory has no end date

	CreatedByEmail   string
	CreatedOnLabel   string
	ValidatedByEmail string // empty until validated
	ValidatedOnLabel string // empty until validated

	Rows []Row
}

// Row is one line of the items table.
type Row struct {
	AssetCode      string
	AssetURL       string
	AssetModel     string
	ConditionLabel string
	RoomName       string
	ProjectCode    string
	StaffName      string
	Presence       string
	Comments       string
}

// Assemble builds the render-ready model for an inventory. When relations is
// nil the inventory's own relation collection is used, ordered by relation ID
// ascending. An explicit slice is authoritative in both content and order,
// which is how filtered partial reports are produced.
//
// Only a missing inventory, premises or place is fatal; every optional link
// degrades to an empty cell.
func Assemble(inventory *models.Inventory, relations []models.InventoryAssetRelation, locale string) (*Model, error) {
	if inventory == nil {
		return nil, custom_error.NewMissingFieldError("inventory")
	}
	if inventory.Premises == nil {
		return nil, custom_error.NewMissingFieldError("premises")
	}
	if inventory.Premises.Place == nil {
		return nil, custom_error.NewMissingFieldError("premises.place")
	}

	if relations == nil {
		relations = make([]models.InventoryAssetRelation, len(inventory.Relations))
		copy(relations, inventory.Relations)
		sort.Slice(relations, func(i, j int) bool {
			return relations[i].ID < relations[j].ID
		})
	}

	model := &Model{
		Locale:          locale,
		PlaceName:       inventory.Premises.Place.Name,
		PremisesCode:    inventory.Premises.Code,
		PremisesAddress: inventory.Premises.Address,
		InventoryCode:   inventory.Code,
		InventoryURL:    inventory.GetURL(locale),
		CreatedByEmail:  Value(inventory.CreatedBy, func(u *models.User) string { return u.Email }, ""),
		CreatedOnLabel:  FormatLong(inventory.CreatedAt, locale),
	}

	if inventory.DateEnd != nil {
		model.DateRangeLabel = FormatLong(*inventory.DateEnd, locale)
	}
	if inventory.ValidatedAt != nil {
		model.ValidatedOnLabel = FormatLong(*inventory.ValidatedAt, locale)
		model.ValidatedByEmail = Value(inventory.ValidatedBy, func(u *models.User) string { return u.Email }, "")
	}

	model.Rows = make([]Row, 0, len(relations))
	for i := range relations {
		model.Rows = append(model.Rows, assembleRow(&relations[i], locale))
	}

	return model, nil
}

func assembleRow(relation *models.InventoryAssetRelation, locale string) Row {
	asset := &relation.Asset

	project := Nav(asset, func(a *models.Asset) *models.ProjectContract { return a.CurrentProjectContract })
	staff := Nav(asset, func(a *models.Asset) *models.Staff { return a.CurrentStaff })

	return Row{
		AssetCode:      asset.Code,
		AssetURL:       asset.GetURL(locale),
		AssetModel:     asset.Model,
		ConditionLabel: metadata.ConditionLabel(relation.Condition, locale),
		RoomName:       Value(relation.Room, func(r *models.Room) string { return r.Name }, ""),
		ProjectCode:    Value(project, func(p *models.ProjectContract) string { return p.CodeProject }, ""),
		StaffName:      staffDisplayName(staff),
		Presence:       Deref(relation.Presence, ""),
		Comments:       Deref(relation.Comments, ""),
	}
}

// staffDisplayName joins the name halves, each independently optional.
func staffDisplayName(staff *models.Staff) string {
	given := Value(staff, func(s *models.Staff) string { return s.GivenName }, "")
	surname := Value(staff, func(s *models.Staff) string { return s.Surname }, "")
	return strings.TrimSpace(given + " " + surname)
}
