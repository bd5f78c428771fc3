package exports

import (
	"fmt"
	"time"

	"logistics/internal/repository"
	"logistics/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ExportsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ExportsRepository {
	return &ExportsRepository{
		repository: r,
	}
}

func (r *ExportsRepository) getInventoryQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("inv.id").As("inventory_id"),
			goqu.I("inv.code").As("inventory_code"),
			goqu.I("inv.state").As("state"),
			goqu.I("inv.date_start").As("date_start"),
			goqu.I("inv.date_end").As("date_end"),
			goqu.I("inv.created_at").As("created_at"),
			goqu.I("inv.validated_at").As("validated_at"),
			goqu.I("p.id").As("premises_id"),
			goqu.I("p.code").As("premises_code"),
			goqu.I("p.address").As("premises_address"),
			goqu.I("pl.id").As("place_id"),
			goqu.I("pl.name").As("place_name"),
			goqu.I("cu.id").As("created_by_id"),
			goqu.I("cu.email").As("created_by_email"),
			goqu.I("vu.id").As("validated_by_id"),
			goqu.I("vu.email").As("validated_by_email"),
		).
		From(goqu.T("inventories").As("inv")).
		InnerJoin(goqu.T("premises").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("inv.premises_id")})).
		InnerJoin(goqu.T("places").As("pl"), goqu.On(goqu.Ex{"pl.id": goqu.I("p.place_id")})).
		LeftJoin(goqu.T("users").As("cu"), goqu.On(goqu.Ex{"cu.id": goqu.I("inv.created_by_id")})).
		LeftJoin(goqu.T("users").As("vu"), goqu.On(goqu.Ex{"vu.id": goqu.I("inv.validated_by_id")}))
}

func (r *ExportsRepository) getRelationQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("rel.id").As("relation_id"),
			goqu.I("rel.inventory_id").As("inventory_id"),
			goqu.I("rel.condition").As("condition"),
			goqu.I("rel.presence").As("presence"),
			goqu.I("rel.comments").As("comments"),
			goqu.I("rm.id").As("room_id"),
			goqu.I("rm.name").As("room_name"),
			goqu.I("a.id").As("asset_id"),
			goqu.I("a.code").As("asset_code"),
			goqu.I("a.model").As("asset_model"),
			goqu.I("pc.id").As("project_contract_id"),
			goqu.I("pc.code_project").As("code_project"),
			goqu.I("s.id").As("staff_id"),
			goqu.I("s.given_name").As("staff_given_name"),
			goqu.I("s.surname").As("staff_surname"),
		).
		From(goqu.T("inventory_asset_relations").As("rel")).
		InnerJoin(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("rel.asset_id")})).
		LeftJoin(goqu.T("rooms").As("rm"), goqu.On(goqu.Ex{"rm.id": goqu.I("rel.room_id")})).
		LeftJoin(goqu.T("project_contracts").As("pc"), goqu.On(goqu.Ex{"pc.id": goqu.I("a.current_project_contract_id")})).
		LeftJoin(goqu.T("staff").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("a.current_staff_id")}))
}

func (r *ExportsRepository) GetInventoryByCode(code string) (*models.Inventory, error) {
	return r.fetchInventoryByCondition(goqu.Ex{"inv.code": code})
}

func (r *ExportsRepository) GetInventoryByID(id int) (*models.Inventory, error) {
	return r.fetchInventoryByCondition(goqu.Ex{"inv.id": id})
}

func (r *ExportsRepository) fetchInventoryByCondition(condition goqu.Ex) (*models.Inventory, error) {
	var flat models.FlatInventoryRecord
	query := r.getInventoryQuery().Where(condition)

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select inventory from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	inventory := flat.TransformToInventory()
	return &inventory, nil
}

// GetInventoriesBy lists inventories matching the given filter conditions.
func (r *ExportsRepository) GetInventoriesBy(conditions repository.QueryBuilder) ([]models.Inventory, error) {
	aliases := map[string]string{
		"premises_id":   "inv.premises_id",
		"state":         "inv.state",
		"premises_code": "p.code",
	}

	query := r.getInventoryQuery().
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("inv.id").Asc())

	var flatInventories []models.FlatInventoryRecord
	if err := query.Executor().ScanStructs(&flatInventories); err != nil {
		return nil, fmt.Errorf("unable to select inventories from database: %w", err)
	}

	inventories := make([]models.Inventory, 0, len(flatInventories))
	for _, flat := range flatInventories {
		inventories = append(inventories, flat.TransformToInventory())
	}
	return inventories, nil
}

// GetRelations returns the inventory's relation collection ordered by
// relation ID ascending, the default document row order.
func (r *ExportsRepository) GetRelations(inventoryID int) ([]models.InventoryAssetRelation, error) {
	query := r.getRelationQuery().
		Where(goqu.Ex{"rel.inventory_id": inventoryID}).
		Order(goqu.I("rel.id").Asc())

	return r.scanRelations(query)
}

// GetFilteredRelations returns the subset of an inventory's relations
// touching the given assets, optionally narrowed to one project contract.
// Used for partial reprints during batch exports.
func (r *ExportsRepository) GetFilteredRelations(inventoryID int, assetIDs []int, projectContractID *int) ([]models.InventoryAssetRelation, error) {
	query := r.getRelationQuery().
		Where(goqu.Ex{
			"rel.inventory_id": inventoryID,
			"rel.asset_id":     assetIDs,
		}).
		Order(goqu.I("rel.id").Asc())

	if projectContractID != nil {
		query = query.Where(goqu.Ex{"a.current_project_contract_id": *projectContractID})
	}

	return r.scanRelations(query)
}

func (r *ExportsRepository) scanRelations(query *goqu.SelectDataset) ([]models.InventoryAssetRelation, error) {
	var flatRelations []models.FlatRelationRecord
	if err := query.Executor().ScanStructs(&flatRelations); err != nil {
		return nil, fmt.Errorf("unable to select inventory asset relations: %w", err)
	}

	relations := make([]models.InventoryAssetRelation, 0, len(flatRelations))
	for _, flat := range flatRelations {
		relations = append(relations, flat.TransformToRelation())
	}
	return relations, nil
}

// GetAssetIDsByPeriod returns the distinct assets touched by inventories
// whose end date falls inside the period.
func (r *ExportsRepository) GetAssetIDsByPeriod(start, end time.Time) ([]int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.DISTINCT(goqu.I("rel.asset_id"))).
		From(goqu.T("inventory_asset_relations").As("rel")).
		InnerJoin(goqu.T("inventories").As("inv"), goqu.On(goqu.Ex{"inv.id": goqu.I("rel.inventory_id")})).
		Where(
			goqu.I("inv.date_end").IsNotNull(),
			goqu.I("inv.date_end").Gte(start),
			goqu.I("inv.date_end").Lte(end),
		)

	var assetIDs []int
	if err := query.Executor().ScanVals(&assetIDs); err != nil {
		return nil, fmt.Errorf("unable to select assets by period: %w", err)
	}
	return assetIDs, nil
}

// HasOnGoingInventoriesBefore reports whether any still-open inventory
// started before the period end. Used to distinguish "nothing to export"
// from "everything is still in progress".
func (r *ExportsRepository) HasOnGoingInventoriesBefore(end time.Time) (bool, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("id")).
		From("inventories").
		Where(
			goqu.I("date_start").Lte(end),
			goqu.I("date_end").IsNull(),
		)

	var count int
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("unable to count on-going inventories: %w", err)
	}
	return count > 0, nil
}

func (r *ExportsRepository) GetAssetIDsByProject(projectContractID int) ([]int, error) {
	query := r.repository.GoquDBWrapper.
		Select("id").
		From("assets").
		Where(goqu.Ex{"current_project_contract_id": projectContractID})

	var assetIDs []int
	if err := query.Executor().ScanVals(&assetIDs); err != nil {
		return nil, fmt.Errorf("unable to select assets by project: %w", err)
	}
	return assetIDs, nil
}

// GetInventoriesForAssets returns the distinct inventories that reference any
// of the given assets.
func (r *ExportsRepository) GetInventoriesForAssets(assetIDs []int) ([]models.Inventory, error) {
	idQuery := r.repository.GoquDBWrapper.
		Select(goqu.DISTINCT(goqu.I("inventory_id"))).
		From("inventory_asset_relations").
		Where(goqu.Ex{"asset_id": assetIDs})

	var inventoryIDs []int
	if err := idQuery.Executor().ScanVals(&inventoryIDs); err != nil {
		return nil, fmt.Errorf("unable to select inventories for assets: %w", err)
	}

	inventories := make([]models.Inventory, 0, len(inventoryIDs))
	for _, id := range inventoryIDs {
		inventory, err := r.GetInventoryByID(id)
		if err != nil {
			return nil, err
		}
		if inventory != nil {
			inventories = append(inventories, *inventory)
		}
	}
	return inventories, nil
}
