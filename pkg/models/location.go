package models

import "github.com/shopspring/decimal"

// LocationCandidate is a unit of available stock at one warehouse, produced
// by a candidate provider. Candidates for one item form an ordered queue;
// a partially consumed candidate is spliced back to the front of it.
type LocationCandidate struct {
	Warehouse string
	Qty       decimal.Decimal
	SerialNos []string
	Batches   map[string]decimal.Decimal
	BundleRef string
}

// ResultLocation is one assigned pick list row: which warehouse (and which
// serials/batch, via the tracking bundle) satisfies part of a requirement.
type ResultLocation struct {
	ID               int             `json:"id" db:"id"`
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
	BundleRef        string          `json:"bundle_ref" db:"bundle_ref"`
	OrderItem        string          `json:"order_item" db:"order_item"`
	RequestItem      string          `json:"request_item" db:"request_item"`
	BundleItem       string          `json:"bundle_item" db:"bundle_item"`
}

func (l *ResultLocation) Reference() string {
	if l.OrderItem != "" {
		return l.OrderItem
	}
	return l.RequestItem
}
