package allocation

import (
	"fmt"

	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

type lineKey struct {
	itemCode  string
	uom       string
	warehouse string
	batchNo   string
	reference string
}

type locationKey struct {
	itemCode  string
	warehouse string
	uom       string
	batchNo   string
	serialNo  string
	reference string
}

// AggregateLines merges duplicate requirement rows by identity key, keeping
// first-seen order, and drops rows for items that are neither stock items
// nor enabled bundles (nothing can be allocated for those). The returned map
// holds the total required stock qty per item, used to cap provider fetches.
func AggregateLines(lines []models.RequirementLine, items ItemReader, precision int32) ([]models.RequirementLine, map[string]decimal.Decimal, error) {
	var merged []models.RequirementLine
	index := map[lineKey]int{}
	itemCounts := map[string]decimal.Decimal{}

	for i, line := range lines {
		if line.ItemCode == "" {
			return nil, nil, custom_error.NewValidationError("row #%d: item code is mandatory", i+1)
		}

		info, err := items.Item(line.ItemCode)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read item %s: %w", line.ItemCode, err)
		}
		if !info.IsStockItem {
			enabled, err := items.HasEnabledBundle(line.ItemCode)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to check bundle for %s: %w", line.ItemCode, err)
			}
			if !enabled {
				continue
			}
		}

		key := lineKey{
			itemCode:  line.ItemCode,
			uom:       line.UOM,
			warehouse: line.Warehouse,
			batchNo:   line.BatchNo,
			reference: line.Reference(),
		}
		stockQty := line.StockQty.Round(precision)

		if at, ok := index[key]; ok {
			merged[at].Qty = merged[at].Qty.Add(line.Qty)
			merged[at].StockQty = merged[at].StockQty.Add(stockQty)
		} else {
			index[key] = len(merged)
			merged = append(merged, line)
		}

		itemCounts[line.ItemCode] = itemCounts[line.ItemCode].Add(stockQty)
	}

	return merged, itemCounts, nil
}

// MergeLocations merges result rows sharing an identity key, keeping
// first-seen order, and clamps picked qty so it never exceeds the merged
// stock qty. Feeding its own output back in is a no-op.
func MergeLocations(rows []models.ResultLocation) []models.ResultLocation {
	merged := make([]models.ResultLocation, 0, len(rows))
	index := map[locationKey]int{}

	for _, row := range rows {
		key := locationKey{
			itemCode:  row.ItemCode,
			warehouse: row.Warehouse,
			uom:       row.UOM,
			batchNo:   row.BatchNo,
			serialNo:  row.SerialNo,
			reference: row.Reference(),
		}

		if at, ok := index[key]; ok {
			merged[at].Qty = merged[at].Qty.Add(row.Qty)
			merged[at].StockQty = merged[at].StockQty.Add(row.StockQty)
		} else {
			index[key] = len(merged)
			merged = append(merged, row)
		}
	}

	for i := range merged {
		if merged[i].PickedQty.GreaterThan(merged[i].StockQty) {
			merged[i].PickedQty = merged[i].StockQty
		}
	}

	return merged
}
