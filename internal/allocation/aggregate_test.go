package allocation

import (
	"fmt"
	"testing"

	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubItems struct {
	items     map[string]models.ItemInfo
	bundles   map[string]bool
	wholeUOMs map[string]bool
}

func (s *stubItems) Item(code string) (models.ItemInfo, error) {
	info, ok := s.items[code]
	if !ok {
		return models.ItemInfo{}, fmt.Errorf("item %s not found", code)
	}
	return info, nil
}

func (s *stubItems) UOMMustBeWholeNumber(uom string) (bool, error) {
	return s.wholeUOMs[uom], nil
}

func (s *stubItems) HasEnabledBundle(itemCode string) (bool, error) {
	return s.bundles[itemCode], nil
}

func (s *stubItems) BundleComponents(itemCode string) (models.BundleComponentMap, error) {
	return models.BundleComponentMap{}, nil
}

func TestAggregateLinesMergesByIdentityKey(t *testing.T) {
	items := &stubItems{items: map[string]models.ItemInfo{
		"ITEM-1": {Code: "ITEM-1", IsStockItem: true},
	}}

	lines := []models.RequirementLine{
		{ItemCode: "ITEM-1", UOM: "Nos", Qty: decimal.NewFromInt(3), StockQty: decimal.NewFromInt(3), OrderItem: "SO-1"},
		{ItemCode: "ITEM-1", UOM: "Nos", Qty: decimal.NewFromInt(2), StockQty: decimal.NewFromInt(2), OrderItem: "SO-1"},
		{ItemCode: "ITEM-1", UOM: "Nos", Qty: decimal.NewFromInt(1), StockQty: decimal.NewFromInt(1), OrderItem: "SO-2"},
	}

	merged, counts, err := AggregateLines(lines, items, DefaultQtyPrecision)

	assert.NoError(t, err)
	assert.Len(t, merged, 2)
	assert.True(t, merged[0].StockQty.Equal(decimal.NewFromInt(5)))
	assert.True(t, merged[1].StockQty.Equal(decimal.NewFromInt(1)))
	assert.True(t, counts["ITEM-1"].Equal(decimal.NewFromInt(6)))
}

func TestAggregateLinesDropsNonStockWithoutBundle(t *testing.T) {
	items := &stubItems{
		items: map[string]models.ItemInfo{
			"SERVICE": {Code: "SERVICE", IsStockItem: false},
			"KIT":     {Code: "KIT", IsStockItem: false},
		},
		bundles: map[string]bool{"KIT": true},
	}

	lines := []models.RequirementLine{
		{ItemCode: "SERVICE", Qty: decimal.NewFromInt(1), StockQty: decimal.NewFromInt(1)},
		{ItemCode: "KIT", Qty: decimal.NewFromInt(1), StockQty: decimal.NewFromInt(1)},
	}

	merged, _, err := AggregateLines(lines, items, DefaultQtyPrecision)

	assert.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, "KIT", merged[0].ItemCode)
}

func TestAggregateLinesRequiresItemCode(t *testing.T) {
	items := &stubItems{items: map[string]models.ItemInfo{}}

	_, _, err := AggregateLines([]models.RequirementLine{{Qty: decimal.NewFromInt(1)}}, items, DefaultQtyPrecision)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestMergeLocationsIsIdempotent(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", Warehouse: "WH-A", Qty: decimal.NewFromInt(2), StockQty: decimal.NewFromInt(2), OrderItem: "SO-1"},
		{ItemCode: "ITEM-1", Warehouse: "WH-A", Qty: decimal.NewFromInt(3), StockQty: decimal.NewFromInt(3), OrderItem: "SO-1"},
		{ItemCode: "ITEM-1", Warehouse: "WH-B", Qty: decimal.NewFromInt(1), StockQty: decimal.NewFromInt(1), OrderItem: "SO-1"},
	}

	merged := MergeLocations(rows)
	assert.Len(t, merged, 2)
	assert.True(t, merged[0].StockQty.Equal(decimal.NewFromInt(5)))

	again := MergeLocations(merged)
	assert.Equal(t, merged, again)
}

func TestMergeLocationsClampsPickedQty(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", Warehouse: "WH-A", StockQty: decimal.NewFromInt(2), PickedQty: decimal.NewFromInt(5)},
	}

	merged := MergeLocations(rows)

	assert.Len(t, merged, 1)
	assert.True(t, merged[0].PickedQty.Equal(decimal.NewFromInt(2)))
}
