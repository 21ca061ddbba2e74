package models

import "github.com/shopspring/decimal"

type TrackingType string

const (
	TrackingNone   TrackingType = "none"
	TrackingSerial TrackingType = "serial"
	TrackingBatch  TrackingType = "batch"
)

type ItemInfo struct {
	Code        string       `json:"code" db:"code"`
	Name        string       `json:"name" db:"name"`
	IsStockItem bool         `json:"is_stock_item" db:"is_stock_item"`
	Tracking    TrackingType `json:"tracking" db:"tracking"`
	StockUOM    string       `json:"stock_uom" db:"stock_uom"`
}

// BundleComponentMap maps a component item code to the quantity required
// for one unit of the composite bundle item.
type BundleComponentMap map[string]decimal.Decimal
