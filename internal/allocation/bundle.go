package allocation

import (
	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

// DefaultQtyPrecision is the number of decimal digits quantities are
// compared and floored at.
const DefaultQtyPrecision = 6

// ComputeBundleDelta derives, per bundle parent reference, how many whole
// bundles the picked component quantities amount to. A component without a
// mapped per-bundle quantity contributes zero. direction is +1 when
// committing a pick list and -1 when cancelling it; the caller applies the
// signed delta to the parent's cumulative picked counter.
func ComputeBundleDelta(rows []models.ResultLocation, bundleMaps map[string]models.BundleComponentMap, direction int, precision int32) map[string]int64 {
	if precision <= 0 {
		precision = DefaultQtyPrecision
	}

	groups := map[string][]models.ResultLocation{}
	for _, row := range rows {
		if row.BundleItem == "" {
			continue
		}
		groups[row.BundleItem] = append(groups[row.BundleItem], row)
	}

	deltas := make(map[string]int64, len(groups))
	for bundleRef, group := range groups {
		components := bundleMaps[bundleRef]

		first := true
		var minBundles decimal.Decimal
		for _, row := range group {
			possible := decimal.Zero
			if perBundle, ok := components[row.ItemCode]; ok && perBundle.IsPositive() {
				possible = row.PickedQty.Div(perBundle)
			}
			if first || possible.LessThan(minBundles) {
				minBundles = possible
				first = false
			}
		}
		if first {
			continue
		}

		deltas[bundleRef] = minBundles.RoundFloor(precision).IntPart() * int64(direction)
	}

	return deltas
}
