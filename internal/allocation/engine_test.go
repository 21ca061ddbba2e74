package allocation

import (
	"fmt"
	"testing"

	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubStock struct {
	serials []SerialRecord
	batches []BatchRecord
	bins    []BinRecord
}

func (s *stubStock) SerialNumbers(itemCode string, warehouses []string, company string, limit int) ([]SerialRecord, error) {
	if limit < len(s.serials) {
		return s.serials[:limit], nil
	}
	return s.serials, nil
}

func (s *stubStock) BatchQuantities(itemCode string, warehouses []string, company string, limit int) ([]BatchRecord, error) {
	return s.batches, nil
}

func (s *stubStock) BinBalances(itemCode string, warehouses []string, company string, limit int) ([]BinRecord, error) {
	return s.bins, nil
}

type stubBundles struct {
	built []OutwardBundle
}

func (s *stubBundles) BuildOutwardBundle(bundle OutwardBundle) (string, error) {
	s.built = append(s.built, bundle)
	return fmt.Sprintf("TB-%d", len(s.built)), nil
}

type stubClaims struct {
	claims map[string]models.ItemClaims
}

func (s *stubClaims) AlreadyPicked(itemCodes []string, excludePickList string) (map[string]models.ItemClaims, error) {
	if s.claims == nil {
		return map[string]models.ItemClaims{}, nil
	}
	return s.claims, nil
}

func newTestEngine(stock *stubStock, items *stubItems, claims *stubClaims) (*Engine, *stubBundles) {
	bundles := &stubBundles{}
	return NewEngine(stock, bundles, claims, items, Config{}, zap.NewNop()), bundles
}

func TestComputeAllocationUntrackedSplitsAcrossWarehouses(t *testing.T) {
	stock := &stubStock{bins: []BinRecord{
		{Warehouse: "WH-A", Qty: decimal.NewFromInt(4)},
		{Warehouse: "WH-B", Qty: decimal.NewFromInt(20)},
	}}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingNone},
	}}
	engine, _ := newTestEngine(stock, items, &stubClaims{})

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode:  "ITEM-1",
			Qty:       decimal.NewFromInt(10),
			StockQty:  decimal.NewFromInt(10),
			OrderItem: "SO-1",
		}},
		Company:      "Test Co",
		PickListName: "PICK-1",
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 2)
	assert.Equal(t, "WH-A", out.Locations[0].Warehouse)
	assert.True(t, out.Locations[0].StockQty.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "WH-B", out.Locations[1].Warehouse)
	assert.True(t, out.Locations[1].StockQty.Equal(decimal.NewFromInt(6)))
	assert.Empty(t, out.Diagnostics)
}

func TestComputeAllocationSerializedSkipsClaimedSerials(t *testing.T) {
	stock := &stubStock{serials: []SerialRecord{
		{SerialNo: "S1", Warehouse: "WH-A"},
		{SerialNo: "S2", Warehouse: "WH-A"},
		{SerialNo: "S3", Warehouse: "WH-A"},
		{SerialNo: "S4", Warehouse: "WH-A"},
		{SerialNo: "S5", Warehouse: "WH-A"},
	}}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingSerial},
	}}
	claims := &stubClaims{claims: map[string]models.ItemClaims{
		"ITEM-1": {
			models.ClaimKey{Warehouse: "WH-A"}: {
				PickedQty: decimal.NewFromInt(1),
				SerialNos: []string{"S2"},
			},
		},
	}}
	engine, bundles := newTestEngine(stock, items, claims)

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode:  "ITEM-1",
			Qty:       decimal.NewFromInt(3),
			StockQty:  decimal.NewFromInt(3),
			OrderItem: "SO-1",
		}},
		Company:      "Test Co",
		PickListName: "PICK-1",
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].StockQty.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "S1\nS3\nS4", out.Locations[0].SerialNo)
	assert.Empty(t, out.Diagnostics)

	assert.Len(t, bundles.built, 1)
	assert.Equal(t, []string{"S1", "S3", "S4"}, bundles.built[0].SerialNos)
}

func TestComputeAllocationBatchedDiscountsClaimedBatch(t *testing.T) {
	stock := &stubStock{batches: []BatchRecord{
		{BatchNo: "B1", Warehouse: "WH-A", Qty: decimal.NewFromInt(5)},
		{BatchNo: "B2", Warehouse: "WH-A", Qty: decimal.NewFromInt(5)},
	}}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingBatch},
	}}
	claims := &stubClaims{claims: map[string]models.ItemClaims{
		"ITEM-1": {
			models.ClaimKey{Warehouse: "WH-A", BatchNo: "B1"}: {PickedQty: decimal.NewFromInt(5)},
		},
	}}
	engine, bundles := newTestEngine(stock, items, claims)

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode:  "ITEM-1",
			Qty:       decimal.NewFromInt(5),
			StockQty:  decimal.NewFromInt(5),
			OrderItem: "SO-1",
		}},
		Company:      "Test Co",
		PickListName: "PICK-1",
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].StockQty.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "TB-1", out.Locations[0].BundleRef)

	assert.Len(t, bundles.built, 1)
	assert.True(t, bundles.built[0].Batches["B2"].Equal(decimal.NewFromInt(5)))
	_, hasClaimed := bundles.built[0].Batches["B1"]
	assert.False(t, hasClaimed)
}

func TestComputeAllocationReportsInsufficientStock(t *testing.T) {
	stock := &stubStock{bins: []BinRecord{
		{Warehouse: "WH-A", Qty: decimal.NewFromInt(6)},
	}}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingNone},
	}}
	engine, _ := newTestEngine(stock, items, &stubClaims{})

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode: "ITEM-1",
			Qty:      decimal.NewFromInt(10),
			StockQty: decimal.NewFromInt(10),
		}},
	})

	assert.NoError(t, err)
	assert.Len(t, out.Diagnostics, 1)
	assert.Equal(t, DiagInsufficientStock, out.Diagnostics[0].Code)
	assert.True(t, out.Diagnostics[0].Qty.Equal(decimal.NewFromInt(4)))
}

func TestComputeAllocationReportsAlreadyPicked(t *testing.T) {
	stock := &stubStock{bins: []BinRecord{
		{Warehouse: "WH-A", Qty: decimal.NewFromInt(5)},
	}}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingNone},
	}}
	claims := &stubClaims{claims: map[string]models.ItemClaims{
		"ITEM-1": {
			models.ClaimKey{Warehouse: "WH-A"}: {PickedQty: decimal.NewFromInt(3)},
		},
	}}
	engine, _ := newTestEngine(stock, items, claims)

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode: "ITEM-1",
			Qty:      decimal.NewFromInt(4),
			StockQty: decimal.NewFromInt(4),
		}},
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].StockQty.Equal(decimal.NewFromInt(2)))

	assert.Len(t, out.Diagnostics, 1)
	assert.Equal(t, DiagAlreadyPicked, out.Diagnostics[0].Code)
	assert.True(t, out.Diagnostics[0].Qty.Equal(decimal.NewFromInt(2)))
}

func TestComputeAllocationKeepsZeroedRowsOnFinalDocument(t *testing.T) {
	stock := &stubStock{}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingNone},
	}}
	engine, _ := newTestEngine(stock, items, &stubClaims{})

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode:  "ITEM-1",
			Qty:       decimal.NewFromInt(5),
			StockQty:  decimal.NewFromInt(5),
			Warehouse: "WH-A",
			OrderItem: "SO-1",
		}},
		PickListName: "PICK-1",
		DocFinal:     true,
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].StockQty.IsZero())
	assert.True(t, out.Locations[0].Qty.IsZero())
	assert.Equal(t, "WH-A", out.Locations[0].Warehouse)

	var codes []DiagnosticCode
	for _, diag := range out.Diagnostics {
		codes = append(codes, diag.Code)
	}
	assert.Contains(t, codes, DiagOutOfStock)
}

func TestComputeAllocationCarriesForwardPickedQty(t *testing.T) {
	stock := &stubStock{bins: []BinRecord{
		{Warehouse: "WH-A", Qty: decimal.NewFromInt(10)},
	}}
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingNone},
	}}
	engine, _ := newTestEngine(stock, items, &stubClaims{})

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode:  "ITEM-1",
			Qty:       decimal.NewFromInt(10),
			StockQty:  decimal.NewFromInt(10),
			PickedQty: decimal.NewFromInt(4),
			Warehouse: "WH-A",
			OrderItem: "SO-1",
		}},
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].PickedQty.Equal(decimal.NewFromInt(4)))
}

func TestComputeAllocationWholeNumberUOM(t *testing.T) {
	stock := &stubStock{bins: []BinRecord{
		{Warehouse: "WH-A", Qty: decimal.NewFromInt(12)},
	}}
	items := &stubItems{
		items: map[string]models.ItemInfo{
			"ITEM-1": {Code: "ITEM-1", IsStockItem: true, Tracking: models.TrackingNone},
		},
		wholeUOMs: map[string]bool{"Box": true},
	}
	engine, _ := newTestEngine(stock, items, &stubClaims{})

	out, err := engine.ComputeAllocation(Input{
		Lines: []models.RequirementLine{{
			ItemCode:         "ITEM-1",
			UOM:              "Box",
			ConversionFactor: decimal.NewFromInt(5),
			Qty:              decimal.NewFromFloat(2.4),
			StockQty:         decimal.NewFromInt(12),
		}},
	})

	assert.NoError(t, err)
	assert.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].Qty.Equal(decimal.NewFromInt(2)))
	assert.True(t, out.Locations[0].StockQty.Equal(decimal.NewFromInt(10)))
}
