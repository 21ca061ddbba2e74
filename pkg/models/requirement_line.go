package models

import "github.com/shopspring/decimal"

// RequirementLine is one row of demand on a pick list: an item and the
// quantity that still has to be located somewhere in the warehouse tree.
type RequirementLine struct {
	ItemCode         string          `json:"item_code" db:"item_code"`
	UOM              string          `json:"uom" db:"uom"`
	StockUOM         string          `json:"stock_uom" db:"stock_uom"`
	ConversionFactor decimal.Decimal `json:"conversion_factor" db:"conversion_factor"`
	Qty              decimal.Decimal `json:"qty" db:"qty"`
	StockQty         decimal.Decimal `json:"stock_qty" db:"stock_qty"`
	PickedQty        decimal.Decimal `json:"picked_qty" db:"picked_qty"`
	Warehouse        string          `json:"warehouse" db:"warehouse"`
	BatchNo          string          `json:"batch_no" db:"batch_no"`
	SerialNo         string          `json:"serial_no" db:"serial_no"`
	OrderItem        string          `json:"order_item" db:"order_item"`
	RequestItem      string          `json:"request_item" db:"request_item"`
	BundleItem       string          `json:"bundle_item" db:"bundle_item"`
}

// Reference is the originating order or request row this line was created
// from. It identifies the line for merging and for the over-pick check.
func (l *RequirementLine) Reference() string {
	if l.OrderItem != "" {
		return l.OrderItem
	}
	return l.RequestItem
}
