package allocation

import (
	"fmt"

	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	// AllowancePercent is the over-picking tolerance above the requested
	// quantity before a run is rejected.
	AllowancePercent decimal.Decimal
	// QtyPrecision is the number of decimal digits used when rounding stock
	// quantities. Defaults to DefaultQtyPrecision.
	QtyPrecision int32
}

// Engine computes which physical stock satisfies a pick list's requirement
// lines. It is purely synchronous; concurrency safety against other pick
// lists comes from the ClaimReader's locking read.
type Engine struct {
	stock   StockReader
	bundles BundleBuilder
	claims  ClaimReader
	items   ItemReader
	cfg     Config
	log     *zap.Logger
}

func NewEngine(stock StockReader, bundles BundleBuilder, claims ClaimReader, items ItemReader, cfg Config, log *zap.Logger) *Engine {
	if cfg.QtyPrecision <= 0 {
		cfg.QtyPrecision = DefaultQtyPrecision
	}
	return &Engine{
		stock:   stock,
		bundles: bundles,
		claims:  claims,
		items:   items,
		cfg:     cfg,
		log:     log,
	}
}

type Input struct {
	// Lines is the current requirement set, including any previously
	// assigned rows; the result is rebuilt from scratch on every run.
	Lines []models.RequirementLine
	// FromWarehouses restricts candidates to these warehouses (descendants
	// of the pick list's parent warehouse). Nil means every warehouse of
	// the company.
	FromWarehouses []string
	Company        string
	// PickListName is excluded from the already-picked read so a pick list
	// does not discount its own rows.
	PickListName string
	// DocFinal marks an already submitted pick list.
	DocFinal bool
}

type Output struct {
	Locations   []models.ResultLocation
	Diagnostics []Diagnostic
}

type carryKey struct {
	itemCode  string
	warehouse string
	batchNo   string
}

// ComputeAllocation runs one full allocation pass. Hard failures (invalid
// lines, over-allocation) abort with no partial result; shortfalls are
// returned as diagnostics alongside the computed rows.
func (e *Engine) ComputeAllocation(in Input) (*Output, error) {
	lines, itemCounts, err := AggregateLines(in.Lines, e.items, e.cfg.QtyPrecision)
	if err != nil {
		return nil, err
	}

	out := &Output{}

	itemCodes := make([]string, 0, len(itemCounts))
	seen := map[string]bool{}
	for _, line := range lines {
		if !seen[line.ItemCode] {
			seen[line.ItemCode] = true
			itemCodes = append(itemCodes, line.ItemCode)
		}
	}

	claims := map[string]models.ItemClaims{}
	if len(itemCodes) > 0 {
		claims, err = e.claims.AlreadyPicked(itemCodes, in.PickListName)
		if err != nil {
			return nil, fmt.Errorf("failed to read stock claimed by other pick lists: %w", err)
		}
	}

	carried := carryForwardPicked(in.Lines)

	queues := map[string]*CandidateQueue{}
	var rows []models.ResultLocation
	for _, line := range lines {
		queue, ok := queues[line.ItemCode]
		if !ok {
			queue, err = e.buildQueue(line.ItemCode, in, itemCounts[line.ItemCode], claims[line.ItemCode], out)
			if err != nil {
				return nil, err
			}
			queues[line.ItemCode] = queue
		}

		wholeNumberUOM, err := e.items.UOMMustBeWholeNumber(line.UOM)
		if err != nil {
			return nil, fmt.Errorf("failed to read UOM %s: %w", line.UOM, err)
		}

		rows = append(rows, Allocate(line, queue, wholeNumberUOM, in.DocFinal)...)
	}

	// re-apply picked quantities the user already entered for the same
	// item/warehouse/batch, so a re-run does not discard them
	for i := range rows {
		key := carryKey{itemCode: rows[i].ItemCode, warehouse: rows[i].Warehouse, batchNo: rows[i].BatchNo}
		if picked, ok := carried[key]; ok {
			rows[i].PickedQty = picked
		}
	}

	out.Locations = MergeLocations(rows)

	// An empty result on a submitted pick list keeps the previous rows with
	// zeroed quantities instead of silently deleting them; the caller is
	// expected to restock or cancel.
	if len(out.Locations) == 0 && in.DocFinal && len(in.Lines) > 0 {
		out.Locations = zeroedLocations(in.Lines)
		out.Diagnostics = append(out.Diagnostics, outOfStock())
		e.log.Warn("allocation produced no rows for submitted pick list",
			zap.String("pick_list", in.PickListName))
	}

	if err := ValidateAllowance(out.Locations, e.cfg.AllowancePercent); err != nil {
		return nil, err
	}

	return out, nil
}

func (e *Engine) buildQueue(itemCode string, in Input, requiredQty decimal.Decimal, itemClaims models.ItemClaims, out *Output) (*CandidateQueue, error) {
	info, err := e.items.Item(itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to read item %s: %w", itemCode, err)
	}

	result, err := e.providerFor(info.Tracking).candidates(info, in.FromWarehouses, in.Company, requiredQty, itemClaims)
	if err != nil {
		return nil, err
	}

	totalQty := decimal.Zero
	for _, candidate := range result.candidates {
		totalQty = totalQty.Add(candidate.Qty)
	}

	if shortfall := requiredQty.Sub(result.availableQty); shortfall.IsPositive() {
		out.Diagnostics = append(out.Diagnostics, insufficientStock(itemCode, shortfall))
	}
	if len(itemClaims) > 0 {
		if shortfall := requiredQty.Sub(totalQty); shortfall.IsPositive() {
			out.Diagnostics = append(out.Diagnostics, alreadyPicked(itemCode, shortfall))
		}
	}

	e.log.Debug("built candidate queue",
		zap.String("item_code", itemCode),
		zap.Int("candidates", len(result.candidates)),
		zap.String("available_qty", totalQty.String()))

	return NewCandidateQueue(result.candidates), nil
}

func (e *Engine) providerFor(tracking models.TrackingType) candidateProvider {
	switch tracking {
	case models.TrackingSerial:
		return &serializedProvider{stock: e.stock, bundles: e.bundles}
	case models.TrackingBatch:
		return &batchedProvider{stock: e.stock, bundles: e.bundles}
	default:
		return &untrackedProvider{stock: e.stock}
	}
}

func carryForwardPicked(lines []models.RequirementLine) map[carryKey]decimal.Decimal {
	carried := map[carryKey]decimal.Decimal{}
	for _, line := range lines {
		if !line.PickedQty.IsPositive() || line.Warehouse == "" {
			continue
		}
		key := carryKey{itemCode: line.ItemCode, warehouse: line.Warehouse, batchNo: line.BatchNo}
		carried[key] = carried[key].Add(line.PickedQty)
	}
	return carried
}

func zeroedLocations(lines []models.RequirementLine) []models.ResultLocation {
	locations := make([]models.ResultLocation, 0, len(lines))
	for _, line := range lines {
		locations = append(locations, models.ResultLocation{
			ItemCode:         line.ItemCode,
			UOM:              line.UOM,
			StockUOM:         line.StockUOM,
			ConversionFactor: line.ConversionFactor,
			Qty:              decimal.Zero,
			StockQty:         decimal.Zero,
			PickedQty:        decimal.Zero,
			Warehouse:        line.Warehouse,
			BatchNo:          line.BatchNo,
			SerialNo:         line.SerialNo,
			OrderItem:        line.OrderItem,
			RequestItem:      line.RequestItem,
			BundleItem:       line.BundleItem,
		})
	}
	return locations
}
