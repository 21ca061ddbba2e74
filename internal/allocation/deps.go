package allocation

import (
	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

type SerialRecord struct {
	SerialNo  string `db:"serial_no"`
	Warehouse string `db:"warehouse"`
}

type BatchRecord struct {
	BatchNo   string          `db:"batch_no"`
	Warehouse string          `db:"warehouse"`
	Qty       decimal.Decimal `db:"qty"`
}

type BinRecord struct {
	Warehouse string          `db:"warehouse"`
	Qty       decimal.Decimal `db:"qty"`
}

// StockReader supplies point-in-time stock reads ordered by creation time
// ascending. A nil warehouse list restricts results to warehouses of the
// given company; a non-nil list restricts to exactly those warehouses.
type StockReader interface {
	SerialNumbers(itemCode string, warehouses []string, company string, limit int) ([]SerialRecord, error)
	BatchQuantities(itemCode string, warehouses []string, company string, limit int) ([]BatchRecord, error)
	BinBalances(itemCode string, warehouses []string, company string, limit int) ([]BinRecord, error)
}

type OutwardBundle struct {
	ItemCode  string
	Warehouse string
	Qty       decimal.Decimal
	SerialNos []string
	Batches   map[string]decimal.Decimal
	Company   string
}

// BundleBuilder creates a draft tracking bundle for an outward movement and
// returns its reference. Unused draft bundles may be discarded by the caller.
type BundleBuilder interface {
	BuildOutwardBundle(bundle OutwardBundle) (string, error)
}

// ClaimReader returns, per item, the stock already claimed by every other
// pick list that is not Completed or Cancelled. The read must be taken under
// a row-level lock held until the surrounding transaction ends; this is the
// engine's only guard against two runs claiming the same free stock.
type ClaimReader interface {
	AlreadyPicked(itemCodes []string, excludePickList string) (map[string]models.ItemClaims, error)
}

// ItemReader supplies item master reference data.
type ItemReader interface {
	Item(code string) (models.ItemInfo, error)
	UOMMustBeWholeNumber(uom string) (bool, error)
	HasEnabledBundle(itemCode string) (bool, error)
	BundleComponents(itemCode string) (models.BundleComponentMap, error)
}
