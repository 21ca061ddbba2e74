package picklist

import (
	"testing"

	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGroupSimilarItems(t *testing.T) {
	locations := []models.ResultLocation{
		{ItemCode: "ITEM-1", Warehouse: "WH-A", Qty: decimal.NewFromInt(2), StockQty: decimal.NewFromInt(2), BatchNo: "B1"},
		{ItemCode: "ITEM-1", Warehouse: "WH-A", Qty: decimal.NewFromInt(3), StockQty: decimal.NewFromInt(3), BatchNo: "B2"},
		{ItemCode: "ITEM-1", Warehouse: "WH-B", Qty: decimal.NewFromInt(1), StockQty: decimal.NewFromInt(1)},
	}

	grouped := GroupSimilarItems(locations)

	assert.Len(t, grouped, 2)
	assert.True(t, grouped[0].Qty.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, grouped[0].BatchNo)
	assert.Equal(t, "WH-B", grouped[1].Warehouse)
}

func TestApplyPickedDefaultsFillsZeroRows(t *testing.T) {
	service := &PickListService{}
	pickList := &models.PickList{
		Locations: []models.ResultLocation{
			{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(5)},
			{ItemCode: "ITEM-2", StockQty: decimal.NewFromInt(4), PickedQty: decimal.NewFromInt(2)},
		},
	}

	err := service.applyPickedDefaults(pickList)

	assert.NoError(t, err)
	assert.True(t, pickList.Locations[0].PickedQty.Equal(decimal.NewFromInt(5)))
	assert.True(t, pickList.Locations[1].PickedQty.Equal(decimal.NewFromInt(2)))
}

func TestApplyPickedDefaultsScanModeRejectsPartialRows(t *testing.T) {
	service := &PickListService{}
	pickList := &models.PickList{
		ScanMode: true,
		Locations: []models.ResultLocation{
			{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(5), PickedQty: decimal.NewFromInt(3)},
		},
	}

	err := service.applyPickedDefaults(pickList)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidateForQtyManufacturePurpose(t *testing.T) {
	service := &PickListService{}

	err := service.validateForQty(&models.PickList{Purpose: models.PurposeManufacture})
	assert.Error(t, err)

	err = service.validateForQty(&models.PickList{
		Purpose: models.PurposeManufacture,
		ForQty:  decimal.NewFromInt(2),
	})
	assert.NoError(t, err)

	err = service.validateForQty(&models.PickList{Purpose: models.PurposeDelivery})
	assert.NoError(t, err)
}

func TestCreatePickListRequestToLines(t *testing.T) {
	request := CreatePickListRequest{
		Company: "Test Co",
		Lines: []RequirementLineRequest{
			{ItemCode: "ITEM-1", UOM: "Box", ConversionFactor: decimal.NewFromInt(5), Qty: decimal.NewFromInt(2)},
			{ItemCode: "ITEM-2", Qty: decimal.NewFromInt(3)},
		},
	}

	lines := request.toLines()

	assert.Len(t, lines, 2)
	assert.True(t, lines[0].StockQty.Equal(decimal.NewFromInt(10)))
	assert.True(t, lines[1].ConversionFactor.Equal(decimal.NewFromInt(1)))
	assert.True(t, lines[1].StockQty.Equal(decimal.NewFromInt(3)))
}

func TestBundleRefsSkipsEmptyRefs(t *testing.T) {
	locations := []models.ResultLocation{
		{ItemCode: "ITEM-1", BundleRef: "TB-1"},
		{ItemCode: "ITEM-2"},
		{ItemCode: "ITEM-3", BundleRef: "TB-2"},
	}

	assert.Equal(t, []string{"TB-1", "TB-2"}, bundleRefs(locations))
}
