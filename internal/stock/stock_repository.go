package stock

import (
	"fmt"

	"picking/internal/allocation"
	"picking/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

// StockRepository reads point-in-time stock availability: serial numbers,
// batch balances and warehouse bin balances, always oldest stock first.
type StockRepository struct {
	db repository.Queryable
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{db: r.GoquDBWrapper}
}

// WithTx returns a copy of the repository that runs inside the given
// transaction.
func (r *StockRepository) WithTx(tx *goqu.TxDatabase) *StockRepository {
	return &StockRepository{db: tx}
}

func (r *StockRepository) SerialNumbers(itemCode string, warehouses []string, company string, limit int) ([]allocation.SerialRecord, error) {
	query := r.db.
		Select(
			goqu.I("sn.serial_no").As("serial_no"),
			goqu.I("sn.warehouse").As("warehouse"),
		).
		From(goqu.T("serial_numbers").As("sn")).
		Where(goqu.Ex{"sn.item_code": itemCode, "sn.company": company}).
		Order(goqu.I("sn.created_at").Asc()).
		Limit(uint(limit))

	if len(warehouses) > 0 {
		query = query.Where(goqu.I("sn.warehouse").In(warehouses))
	} else {
		query = query.Where(goqu.I("sn.warehouse").Neq(""))
	}

	var records []allocation.SerialRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to select serial numbers from database: %w", err)
	}

	return records, nil
}

func (r *StockRepository) BatchQuantities(itemCode string, warehouses []string, company string, limit int) ([]allocation.BatchRecord, error) {
	// FEFO first, then FIFO for batches without an expiry date
	query := r.db.
		Select(
			goqu.I("bb.batch_no").As("batch_no"),
			goqu.I("bb.warehouse").As("warehouse"),
			goqu.I("bb.qty").As("qty"),
		).
		From(goqu.T("batch_balances").As("bb")).
		Join(
			goqu.T("batches").As("b"),
			goqu.On(goqu.Ex{"bb.batch_no": goqu.I("b.batch_no")}),
		).
		Where(goqu.Ex{"bb.item_code": itemCode}).
		Where(goqu.I("bb.qty").Gt(0)).
		Order(
			goqu.I("b.expiry_date").Asc().NullsLast(),
			goqu.I("b.created_at").Asc(),
		).
		Limit(uint(limit))

	if len(warehouses) > 0 {
		query = query.Where(goqu.I("bb.warehouse").In(warehouses))
	} else {
		query = query.
			Join(
				goqu.T("warehouses").As("w"),
				goqu.On(goqu.Ex{"bb.warehouse": goqu.I("w.name")}),
			).
			Where(goqu.Ex{"w.company": company})
	}

	var records []allocation.BatchRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to select batch balances from database: %w", err)
	}

	return records, nil
}

func (r *StockRepository) BinBalances(itemCode string, warehouses []string, company string, limit int) ([]allocation.BinRecord, error) {
	query := r.db.
		Select(
			goqu.I("bn.warehouse").As("warehouse"),
			goqu.I("bn.actual_qty").As("qty"),
		).
		From(goqu.T("bins").As("bn")).
		Where(goqu.Ex{"bn.item_code": itemCode}).
		Where(goqu.I("bn.actual_qty").Gt(0)).
		Order(goqu.I("bn.created_at").Asc()).
		Limit(uint(limit))

	if len(warehouses) > 0 {
		query = query.Where(goqu.I("bn.warehouse").In(warehouses))
	} else {
		query = query.
			Join(
				goqu.T("warehouses").As("w"),
				goqu.On(goqu.Ex{"bn.warehouse": goqu.I("w.name")}),
			).
			Where(goqu.Ex{"w.company": company})
	}

	var records []allocation.BinRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to select bin balances from database: %w", err)
	}

	return records, nil
}
