package allocation

import (
	"strings"

	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

// Allocate consumes candidates from the front of the queue until the line's
// requirement is satisfied or the queue runs out. Successive lines of the
// same item must be fed the same queue so stock is never assigned twice
// within one run. Under-allocation is allowed here; the shortfall is
// reported by the provider diagnostics.
func Allocate(line models.RequirementLine, queue *CandidateQueue, wholeNumberUOM bool, docFinal bool) []models.ResultLocation {
	conversionFactor := line.ConversionFactor
	if conversionFactor.IsZero() {
		conversionFactor = decimal.NewFromInt(1)
	}

	remaining := line.StockQty
	if docFinal && line.StockQty.IsZero() {
		// a submitted line that went out of stock earlier may pick up newly
		// replenished stock on recalculation
		remaining = line.Qty
	}

	var rows []models.ResultLocation
	for remaining.IsPositive() && !queue.Empty() {
		candidate, _ := queue.PopFront()

		stockQty := remaining
		if candidate.Qty.LessThan(remaining) {
			stockQty = candidate.Qty
		}
		qty := stockQty.Div(conversionFactor)

		if wholeNumberUOM {
			qty = qty.Floor()
			stockQty = qty.Mul(conversionFactor)
			if stockQty.IsZero() {
				break
			}
		}

		rows = append(rows, resultRow(line, candidate, qty, stockQty, conversionFactor))
		remaining = remaining.Sub(stockQty)

		leftover := candidate.Qty.Sub(stockQty)
		if leftover.IsPositive() {
			candidate.Qty = leftover
			if len(candidate.SerialNos) > 0 {
				// serials are consumed from the front, the remainder keeps
				// the tail of the list
				keep := int(leftover.IntPart())
				if keep > len(candidate.SerialNos) {
					keep = len(candidate.SerialNos)
				}
				candidate.SerialNos = candidate.SerialNos[len(candidate.SerialNos)-keep:]
			}
			queue.PushFront(candidate)
		}
	}

	return rows
}

func resultRow(line models.RequirementLine, candidate models.LocationCandidate, qty, stockQty, conversionFactor decimal.Decimal) models.ResultLocation {
	serialNo := line.SerialNo
	if len(candidate.SerialNos) > 0 {
		consumed := int(stockQty.IntPart())
		if consumed > len(candidate.SerialNos) {
			consumed = len(candidate.SerialNos)
		}
		serialNo = strings.Join(candidate.SerialNos[:consumed], "\n")
	}

	return models.ResultLocation{
		ItemCode:         line.ItemCode,
		UOM:              line.UOM,
		StockUOM:         line.StockUOM,
		ConversionFactor: conversionFactor,
		Qty:              qty,
		StockQty:         stockQty,
		PickedQty:        line.PickedQty,
		Warehouse:        candidate.Warehouse,
		BatchNo:          line.BatchNo,
		SerialNo:         serialNo,
		BundleRef:        candidate.BundleRef,
		OrderItem:        line.OrderItem,
		RequestItem:      line.RequestItem,
		BundleItem:       line.BundleItem,
	}
}
