package picklist

import (
	"fmt"
	"strings"

	"picking/internal/repository"
	"picking/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PickListRepository struct {
	db repository.Queryable
}

func NewRepository(r *repository.Repository) *PickListRepository {
	return &PickListRepository{db: r.GoquDBWrapper}
}

func (r *PickListRepository) WithTx(tx *goqu.TxDatabase) *PickListRepository {
	return &PickListRepository{db: tx}
}

func (r *PickListRepository) Insert(pickList *models.PickList) (int, error) {
	query := r.db.Insert("pick_lists").
		Rows(goqu.Record{
			"name":             pickList.Name,
			"company":          pickList.Company,
			"purpose":          pickList.Purpose,
			"parent_warehouse": pickList.ParentWarehouse,
			"for_qty":          pickList.ForQty,
			"scan_mode":        pickList.ScanMode,
			"status":           pickList.Status,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert pick list record: %w", err)
	}

	return id, nil
}

func (r *PickListRepository) GetPickList(id int) (*models.PickList, error) {
	var pickList models.PickList
	query := r.db.
		From("pick_lists").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&pickList)
	if err != nil {
		return nil, fmt.Errorf("unable to select pick list from database: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("pick list %d not found", id)
	}

	locations, err := r.GetLocations(id)
	if err != nil {
		return nil, err
	}
	pickList.Locations = locations

	return &pickList, nil
}

func (r *PickListRepository) GetPickListsBy(conditions repository.QueryBuilder) ([]models.PickList, error) {
	aliases := map[string]string{
		"status":  "pl.status",
		"company": "pl.company",
		"purpose": "pl.purpose",
	}

	query := r.db.
		From(goqu.T("pick_lists").As("pl")).
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("pl.id").Asc())

	var pickLists []models.PickList
	if err := query.Executor().ScanStructs(&pickLists); err != nil {
		return nil, fmt.Errorf("unable to select pick lists from database: %w", err)
	}

	return pickLists, nil
}

func (r *PickListRepository) GetLocations(pickListID int) ([]models.ResultLocation, error) {
	query := r.db.
		From("pick_list_items").
		Select(
			"id", "item_code", "uom", "stock_uom", "conversion_factor",
			"qty", "stock_qty", "picked_qty", "warehouse", "batch_no",
			"serial_no", "bundle_ref", "order_item", "request_item", "bundle_item",
		).
		Where(goqu.Ex{"pick_list_id": pickListID}).
		Order(goqu.C("id").Asc())

	var locations []models.ResultLocation
	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to select pick list items from database: %w", err)
	}

	return locations, nil
}

// ReplaceLocations rebuilds the locations table of a pick list from the
// engine output. The previous rows are dropped, never patched.
func (r *PickListRepository) ReplaceLocations(pickListID int, locations []models.ResultLocation) error {
	deleteQuery := r.db.Delete("pick_list_items").
		Where(goqu.Ex{"pick_list_id": pickListID})
	if _, err := deleteQuery.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to remove previous pick list items: %w", err)
	}

	if len(locations) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(locations))
	for _, location := range locations {
		rows = append(rows, goqu.Record{
			"pick_list_id":      pickListID,
			"item_code":         location.ItemCode,
			"uom":               location.UOM,
			"stock_uom":         location.StockUOM,
			"conversion_factor": location.ConversionFactor,
			"qty":               location.Qty,
			"stock_qty":         location.StockQty,
			"picked_qty":        location.PickedQty,
			"warehouse":         location.Warehouse,
			"batch_no":          location.BatchNo,
			"serial_no":         location.SerialNo,
			"bundle_ref":        location.BundleRef,
			"order_item":        location.OrderItem,
			"request_item":      location.RequestItem,
			"bundle_item":       location.BundleItem,
		})
	}

	if _, err := r.db.Insert("pick_list_items").Rows(rows...).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert pick list items: %w", err)
	}

	return nil
}

func (r *PickListRepository) UpdateStatus(pickListID int, status string) error {
	query := r.db.Update("pick_lists").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": pickListID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update pick list status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pick list %d not found", pickListID)
	}

	return nil
}

// AlreadyPicked aggregates, per item and (warehouse, batch), the stock
// already claimed by every other open pick list. The claiming rows are
// locked first and stay locked until the surrounding transaction ends;
// postgres does not allow FOR UPDATE together with GROUP BY.
func (r *PickListRepository) AlreadyPicked(itemCodes []string, excludePickList string) (map[string]models.ItemClaims, error) {
	lockQuery := `
		SELECT pli.id
		FROM pick_list_items pli
		INNER JOIN pick_lists pl ON pl.id = pli.pick_list_id
		WHERE pli.item_code = ANY($1)
		  AND (pli.picked_qty > 0 OR pli.stock_qty > 0)
		  AND pl.status NOT IN ('Completed', 'Cancelled')
		  AND pl.name != $2
		FOR UPDATE OF pli
	`
	if _, err := r.db.Exec(lockQuery, pq.Array(itemCodes), excludePickList); err != nil {
		return nil, fmt.Errorf("failed to lock claimed pick list items: %w", err)
	}

	query := `
		SELECT pli.item_code,
		       pli.warehouse,
		       COALESCE(pli.batch_no, '') AS batch_no,
		       SUM(CASE WHEN pli.picked_qty > 0 THEN pli.picked_qty ELSE pli.stock_qty END) AS picked_qty,
		       COALESCE(STRING_AGG(pli.serial_no, E'\n'), '') AS serial_no
		FROM pick_list_items pli
		INNER JOIN pick_lists pl ON pl.id = pli.pick_list_id
		WHERE pli.item_code = ANY($1)
		  AND (pli.picked_qty > 0 OR pli.stock_qty > 0)
		  AND pl.status NOT IN ('Completed', 'Cancelled')
		  AND pl.name != $2
		GROUP BY pli.item_code, pli.warehouse, COALESCE(pli.batch_no, '')
	`
	rows, err := r.db.Query(query, pq.Array(itemCodes), excludePickList)
	if err != nil {
		return nil, fmt.Errorf("failed to read claimed pick list items: %w", err)
	}
	defer rows.Close()

	claims := map[string]models.ItemClaims{}
	for rows.Next() {
		var itemCode, warehouse, batchNo, serialNo string
		var pickedQty decimal.Decimal
		if err := rows.Scan(&itemCode, &warehouse, &batchNo, &pickedQty, &serialNo); err != nil {
			return nil, fmt.Errorf("failed to scan claimed pick list item: %w", err)
		}

		var serialNos []string
		for _, sn := range strings.Split(serialNo, "\n") {
			if sn != "" {
				serialNos = append(serialNos, sn)
			}
		}

		if claims[itemCode] == nil {
			claims[itemCode] = models.ItemClaims{}
		}
		claims[itemCode][models.ClaimKey{Warehouse: warehouse, BatchNo: batchNo}] = models.Claim{
			PickedQty: pickedQty,
			SerialNos: serialNos,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read claimed pick list items: %w", err)
	}

	return claims, nil
}

type OrderItemTotals struct {
	OrderItem string
	ItemCode  string
	StockQty  decimal.Decimal
	PickedQty decimal.Decimal
}

// PickedTotalsByOrderItem sums stock and picked quantities across submitted
// pick lists for the given order rows, locking them against concurrent
// updates.
func (r *PickListRepository) PickedTotalsByOrderItem(refs []string) ([]OrderItemTotals, error) {
	lockQuery := `
		SELECT pli.id
		FROM pick_list_items pli
		INNER JOIN pick_lists pl ON pl.id = pli.pick_list_id
		WHERE pli.order_item = ANY($1)
		  AND pl.status IN ('Open', 'Completed')
		FOR UPDATE OF pli
	`
	if _, err := r.db.Exec(lockQuery, pq.Array(refs)); err != nil {
		return nil, fmt.Errorf("failed to lock submitted pick list items: %w", err)
	}

	query := `
		SELECT pli.order_item,
		       MIN(pli.item_code) AS item_code,
		       SUM(pli.stock_qty) AS stock_qty,
		       SUM(pli.picked_qty) AS picked_qty
		FROM pick_list_items pli
		INNER JOIN pick_lists pl ON pl.id = pli.pick_list_id
		WHERE pli.order_item = ANY($1)
		  AND pl.status IN ('Open', 'Completed')
		GROUP BY pli.order_item
	`
	rows, err := r.db.Query(query, pq.Array(refs))
	if err != nil {
		return nil, fmt.Errorf("failed to read picked totals: %w", err)
	}
	defer rows.Close()

	var totals []OrderItemTotals
	for rows.Next() {
		var t OrderItemTotals
		if err := rows.Scan(&t.OrderItem, &t.ItemCode, &t.StockQty, &t.PickedQty); err != nil {
			return nil, fmt.Errorf("failed to scan picked totals: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read picked totals: %w", err)
	}

	return totals, nil
}

func (r *PickListRepository) GetOrderItemCodes(refs []string) (map[string]string, error) {
	if len(refs) == 0 {
		return map[string]string{}, nil
	}

	query := r.db.
		From("order_items").
		Select("name", "item_code").
		Where(goqu.C("name").In(refs))

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("unable to select order items from database: %w", err)
	}
	defer rows.Close()

	itemCodes := map[string]string{}
	for rows.Next() {
		var name, itemCode string
		if err := rows.Scan(&name, &itemCode); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		itemCodes[name] = itemCode
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return itemCodes, nil
}

func (r *PickListRepository) SetOrderItemPicked(ref string, pickedQty decimal.Decimal) error {
	query := r.db.Update("order_items").
		Set(goqu.Record{"picked_qty": pickedQty}).
		Where(goqu.Ex{"name": ref})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update picked qty for order item %s: %w", ref, err)
	}

	return nil
}

func (r *PickListRepository) IncrementOrderItemPicked(ref string, delta int64) error {
	query := r.db.Update("order_items").
		Set(goqu.Record{"picked_qty": goqu.L("picked_qty + ?", delta)}).
		Where(goqu.Ex{"name": ref})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to increment picked qty for order item %s: %w", ref, err)
	}

	return nil
}
