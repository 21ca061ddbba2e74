package allocation

import (
	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

// ValidateAllowance rejects the whole run when the picked quantity for any
// originating reference exceeds the requested stock quantity by more than
// the allowance percent. Rows without a reference are not checked.
func ValidateAllowance(rows []models.ResultLocation, allowancePercent decimal.Decimal) error {
	type refTotals struct {
		itemCode string
		picked   decimal.Decimal
		stock    decimal.Decimal
	}

	var order []string
	totals := map[string]*refTotals{}
	for _, row := range rows {
		reference := row.Reference()
		if reference == "" {
			continue
		}
		t, ok := totals[reference]
		if !ok {
			t = &refTotals{itemCode: row.ItemCode}
			totals[reference] = t
			order = append(order, reference)
		}
		t.picked = t.picked.Add(row.PickedQty)
		t.stock = t.stock.Add(row.StockQty)
	}

	factor := decimal.NewFromInt(1).Add(allowancePercent.Div(decimal.NewFromInt(100)))
	for _, reference := range order {
		t := totals[reference]
		limit := t.stock.Mul(factor)
		if t.picked.GreaterThan(limit) {
			return &custom_error.OverAllocationError{
				ItemCode:  t.itemCode,
				Reference: reference,
				PickedQty: t.picked,
				LimitQty:  limit,
			}
		}
	}

	return nil
}
