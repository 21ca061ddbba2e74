package allocation

import (
	"testing"

	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAllowanceWithinLimit(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(10), PickedQty: decimal.NewFromInt(10), OrderItem: "SO-1"},
	}

	assert.NoError(t, ValidateAllowance(rows, decimal.Zero))
}

func TestValidateAllowanceRejectsOverPick(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(5), PickedQty: decimal.NewFromInt(3), OrderItem: "SO-1"},
		{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(5), PickedQty: decimal.NewFromInt(8), OrderItem: "SO-1"},
	}

	err := ValidateAllowance(rows, decimal.Zero)

	var overAllocationErr *custom_error.OverAllocationError
	assert.ErrorAs(t, err, &overAllocationErr)
	assert.Equal(t, "SO-1", overAllocationErr.Reference)
	assert.True(t, overAllocationErr.PickedQty.Equal(decimal.NewFromInt(11)))
}

func TestValidateAllowancePercentRaisesLimit(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(10), PickedQty: decimal.NewFromInt(11), OrderItem: "SO-1"},
	}

	assert.Error(t, ValidateAllowance(rows, decimal.Zero))
	assert.NoError(t, ValidateAllowance(rows, decimal.NewFromInt(10)))
}

func TestValidateAllowanceSkipsRowsWithoutReference(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", StockQty: decimal.NewFromInt(1), PickedQty: decimal.NewFromInt(100)},
	}

	assert.NoError(t, ValidateAllowance(rows, decimal.Zero))
}
