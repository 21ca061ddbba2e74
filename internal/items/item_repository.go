package items

import (
	"fmt"

	"picking/internal/repository"
	"picking/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

// ItemRepository reads item master data: tracking type, UOM constraints and
// bundle definitions. All of it is reference data the engine only consumes.
type ItemRepository struct {
	db repository.Queryable
}

func NewRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{db: r.GoquDBWrapper}
}

func (r *ItemRepository) WithTx(tx *goqu.TxDatabase) *ItemRepository {
	return &ItemRepository{db: tx}
}

type flatItem struct {
	Code        string `db:"code"`
	Name        string `db:"name"`
	IsStockItem bool   `db:"is_stock_item"`
	HasSerialNo bool   `db:"has_serial_no"`
	HasBatchNo  bool   `db:"has_batch_no"`
	StockUOM    string `db:"stock_uom"`
}

func (r *ItemRepository) Item(code string) (models.ItemInfo, error) {
	var flat flatItem
	query := r.db.
		Select(
			goqu.I("i.code").As("code"),
			goqu.I("i.name").As("name"),
			goqu.I("i.is_stock_item").As("is_stock_item"),
			goqu.I("i.has_serial_no").As("has_serial_no"),
			goqu.I("i.has_batch_no").As("has_batch_no"),
			goqu.I("i.stock_uom").As("stock_uom"),
		).
		From(goqu.T("items").As("i")).
		Where(goqu.Ex{"i.code": code})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return models.ItemInfo{}, fmt.Errorf("unable to select item from database: %w", err)
	}
	if !found {
		return models.ItemInfo{}, fmt.Errorf("item %s not found", code)
	}

	tracking := models.TrackingNone
	if flat.HasSerialNo {
		tracking = models.TrackingSerial
	} else if flat.HasBatchNo {
		tracking = models.TrackingBatch
	}

	return models.ItemInfo{
		Code:        flat.Code,
		Name:        flat.Name,
		IsStockItem: flat.IsStockItem,
		Tracking:    tracking,
		StockUOM:    flat.StockUOM,
	}, nil
}

func (r *ItemRepository) UOMMustBeWholeNumber(uom string) (bool, error) {
	var mustBeWholeNumber bool
	query := r.db.
		Select("must_be_whole_number").
		From("uoms").
		Where(goqu.Ex{"name": uom})

	found, err := query.Executor().ScanVal(&mustBeWholeNumber)
	if err != nil {
		return false, fmt.Errorf("unable to select UOM from database: %w", err)
	}
	if !found {
		return false, nil
	}

	return mustBeWholeNumber, nil
}

func (r *ItemRepository) HasEnabledBundle(itemCode string) (bool, error) {
	var count int
	query := r.db.
		Select(goqu.COUNT("id")).
		From("bundles").
		Where(goqu.Ex{"new_item_code": itemCode, "disabled": false})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("unable to check bundle for item %s: %w", itemCode, err)
	}

	return count > 0, nil
}

// BundleComponents returns the component quantities per one unit of the
// latest enabled bundle defined for the given item.
func (r *ItemRepository) BundleComponents(itemCode string) (models.BundleComponentMap, error) {
	type flatComponent struct {
		ItemCode string          `db:"item_code"`
		Qty      decimal.Decimal `db:"qty"`
	}

	query := r.db.
		Select(
			goqu.I("bi.item_code").As("item_code"),
			goqu.I("bi.qty").As("qty"),
		).
		From(goqu.T("bundle_items").As("bi")).
		Join(
			goqu.T("bundles").As("b"),
			goqu.On(goqu.Ex{"bi.bundle_id": goqu.I("b.id")}),
		).
		Where(goqu.Ex{"b.new_item_code": itemCode, "b.disabled": false}).
		Order(goqu.I("b.id").Desc())

	var components []flatComponent
	if err := query.Executor().ScanStructs(&components); err != nil {
		return nil, fmt.Errorf("unable to select bundle components from database: %w", err)
	}

	componentMap := models.BundleComponentMap{}
	for _, component := range components {
		componentMap[component.ItemCode] = component.Qty
	}

	return componentMap, nil
}
