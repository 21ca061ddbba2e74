package picklist

import (
	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

type RequirementLineRequest struct {
	ItemCode         string          `json:"item_code" binding:"required"`
	UOM              string          `json:"uom"`
	StockUOM         string          `json:"stock_uom"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Qty              decimal.Decimal `json:"qty" binding:"required"`
	StockQty         decimal.Decimal `json:"stock_qty"`
	PickedQty        decimal.Decimal `json:"picked_qty"`
	Warehouse        string          `json:"warehouse"`
	BatchNo          string          `json:"batch_no"`
	OrderItem        string          `json:"order_item"`
	RequestItem      string          `json:"request_item"`
	BundleItem       string          `json:"bundle_item"`
}

type CreatePickListRequest struct {
	Company         string                   `json:"company" binding:"required"`
	Purpose         string                   `json:"purpose"`
	ParentWarehouse string                   `json:"parent_warehouse"`
	ForQty          decimal.Decimal          `json:"for_qty"`
	ScanMode        bool                     `json:"scan_mode"`
	Lines           []RequirementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (r CreatePickListRequest) toLines() []models.RequirementLine {
	lines := make([]models.RequirementLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		conversionFactor := line.ConversionFactor
		if conversionFactor.IsZero() {
			conversionFactor = decimal.NewFromInt(1)
		}
		stockQty := line.StockQty
		if stockQty.IsZero() {
			stockQty = line.Qty.Mul(conversionFactor)
		}
		lines = append(lines, models.RequirementLine{
			ItemCode:         line.ItemCode,
			UOM:              line.UOM,
			StockUOM:         line.StockUOM,
			ConversionFactor: conversionFactor,
			Qty:              line.Qty,
			StockQty:         stockQty,
			PickedQty:        line.PickedQty,
			Warehouse:        line.Warehouse,
			BatchNo:          line.BatchNo,
			OrderItem:        line.OrderItem,
			RequestItem:      line.RequestItem,
			BundleItem:       line.BundleItem,
		})
	}
	return lines
}
