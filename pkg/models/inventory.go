package models

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type InventoryState string

const (
	InventoryStateOnGoing           InventoryState = "on_going"
	InventoryStatePendingValidation InventoryState = "pending_validation"
	InventoryStateValidated         InventoryState = "validated"
)

type Inventory struct {
	ID          int                     `json:"id"`
	Code        string                  `json:"code"`
	State       InventoryState          `json:"state"`
	Premises    *Premises               `json:"premises"`
	DateStart   time.Time               `json:"date_start"`
	DateEnd     *time.Time              `json:"date_end,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	CreatedBy   *User                   `json:"created_by,omitempty"`
	ValidatedAt *time.Time              `json:"validated_at,omitempty"`
	ValidatedBy *User                   `json:"validated_by,omitempty"`
	Relations   []InventoryAssetRelation `json:"relations,omitempty"`
}

// InventoryAssetRelation links one Asset to one Inventory together with the
// observations made during the inventory. Read-only once the inventory is
// validated.
type InventoryAssetRelation struct {
	ID          int     `json:"id"`
	InventoryID int     `json:"inventory_id"`
	Asset       Asset   `json:"asset"`
	Condition   string  `json:"condition"`
	Room        *Room   `json:"room,omitempty"`
	Presence    *string `json:"presence,omitempty"`
	Comments    *string `json:"comments,omitempty"`
}

type Room struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GetURL returns the front-office detail URL for the inventory in the given
// locale. The base URL comes from the FRONT_URL environment variable and is
// expected to end with a slash.
func (i *Inventory) GetURL(locale string) string {
	if locale == "" {
		locale = "en"
	}
	return fmt.Sprintf("%s%s/logistics/inventories/detail/%s", frontURL(), locale, i.Code)
}

func frontURL() string {
	url := os.Getenv("FRONT_URL")
	if url != "" && !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}

func (i *Inventory) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "inventory",
	}
}

// FlatInventoryRecord is the single-row projection of an inventory with its
// premises, place and workflow identities joined in.
type FlatInventoryRecord struct {
	ID               int        `db:"inventory_id"`
	Code             string     `db:"inventory_code"`
	State            string     `db:"state"`
	DateStart        time.Time  `db:"date_start"`
	DateEnd          *time.Time `db:"date_end"`
	CreatedAt        time.Time  `db:"created_at"`
	ValidatedAt      *time.Time `db:"validated_at"`
	PremisesID       int        `db:"premises_id"`
	PremisesCode     string     `db:"premises_code"`
	PremisesAddress  string     `db:"premises_address"`
	PlaceID          int        `db:"place_id"`
	PlaceName        string     `db:"place_name"`
	CreatedByID      *int       `db:"created_by_id"`
	CreatedByEmail   *string    `db:"created_by_email"`
	ValidatedByID    *int       `db:"validated_by_id"`
	ValidatedByEmail *string    `db:"validated_by_email"`
}

func (f *FlatInventoryRecord) TransformToInventory() Inventory {
	inv := Inventory{
		ID:          f.ID,
		Code:        f.Code,
		State:       InventoryState(f.State),
		DateStart:   f.DateStart,
		DateEnd:     f.DateEnd,
		CreatedAt:   f.CreatedAt,
		ValidatedAt: f.ValidatedAt,
		Premises: &Premises{
			ID:      f.PremisesID,
			Code:    f.PremisesCode,
			Address: f.PremisesAddress,
			Place: &Place{
				ID:   f.PlaceID,
				Name: f.PlaceName,
			},
		},
	}
	if f.CreatedByID != nil {
		inv.CreatedBy = &User{ID: *f.CreatedByID}
		if f.CreatedByEmail != nil {
			inv.CreatedBy.Email = *f.CreatedByEmail
		}
	}
	if f.ValidatedByID != nil {
		inv.ValidatedBy = &User{ID: *f.ValidatedByID}
		if f.ValidatedByEmail != nil {
			inv.ValidatedBy.Email = *f.ValidatedByEmail
		}
	}
	return inv
}

// FlatRelationRecord is the single-row projection of a relation with its
// asset, room, project contract and staff joined in. Nullable columns map to
// pointers so absent links stay absent after the transform.
type FlatRelationRecord struct {
	ID              int     `db:"relation_id"`
	InventoryID     int     `db:"inventory_id"`
	Condition       string  `db:"condition"`
	Presence        *string `db:"presence"`
	Comments        *string `db:"comments"`
	RoomID          *int    `db:"room_id"`
	RoomName        *string `db:"room_name"`
	AssetID         int     `db:"asset_id"`
	AssetCode       string  `db:"asset_code"`
	AssetModel      string  `db:"asset_model"`
	ProjectID       *int    `db:"project_contract_id"`
	ProjectCode     *string `db:"code_project"`
	StaffID         *int    `db:"staff_id"`
	StaffGivenName  *string `db:"staff_given_name"`
	StaffSurname    *string `db:"staff_surname"`
}

func (f *FlatRelationRecord) TransformToRelation() InventoryAssetRelation {
	rel := InventoryAssetRelation{
		ID:          f.ID,
		InventoryID: f.InventoryID,
		Condition:   f.Condition,
		Presence:    f.Presence,
		Comments:    f.Comments,
		Asset: Asset{
			ID:    f.AssetID,
			Code:  f.AssetCode,
			Model: f.AssetModel,
		},
	}
	if f.RoomID != nil {
		rel.Room = &Room{ID: *f.RoomID}
		if f.RoomName != nil {
			rel.Room.Name = *f.RoomName
		}
	}
	if f.ProjectID != nil {
		rel.Asset.CurrentProjectContract = &ProjectContract{ID: *f.ProjectID}
		if f.ProjectCode != nil {
			rel.Asset.CurrentProjectContract.CodeProject = *f.ProjectCode
		}
	}
	if f.StaffID != nil {
		staff := &Staff{ID: *f.StaffID}
		if f.StaffGivenName != nil {
			staff.GivenName = *f.StaffGivenName
		}
		if f.StaffSurname != nil {
			staff.Surname = *f.StaffSurname
		}
		rel.Asset.CurrentStaff = staff
	}
	return rel
}
