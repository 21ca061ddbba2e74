package allocation

import (
	"testing"

	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeBundleDeltaTakesComponentMinimum(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "PART-A", PickedQty: decimal.NewFromInt(5), BundleItem: "SO-KIT"},
		{ItemCode: "PART-B", PickedQty: decimal.NewFromInt(7), BundleItem: "SO-KIT"},
	}
	bundleMaps := map[string]models.BundleComponentMap{
		"SO-KIT": {
			"PART-A": decimal.NewFromInt(2),
			"PART-B": decimal.NewFromInt(3),
		},
	}

	deltas := ComputeBundleDelta(rows, bundleMaps, 1, DefaultQtyPrecision)

	// floor(min(5/2, 7/3)) = 2
	assert.Equal(t, int64(2), deltas["SO-KIT"])
}

func TestComputeBundleDeltaNegativeDirection(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "PART-A", PickedQty: decimal.NewFromInt(4), BundleItem: "SO-KIT"},
	}
	bundleMaps := map[string]models.BundleComponentMap{
		"SO-KIT": {"PART-A": decimal.NewFromInt(2)},
	}

	deltas := ComputeBundleDelta(rows, bundleMaps, -1, DefaultQtyPrecision)

	assert.Equal(t, int64(-2), deltas["SO-KIT"])
}

func TestComputeBundleDeltaUnmappedComponentContributesZero(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "PART-A", PickedQty: decimal.NewFromInt(10), BundleItem: "SO-KIT"},
		{ItemCode: "PART-X", PickedQty: decimal.NewFromInt(10), BundleItem: "SO-KIT"},
	}
	bundleMaps := map[string]models.BundleComponentMap{
		"SO-KIT": {"PART-A": decimal.NewFromInt(2)},
	}

	deltas := ComputeBundleDelta(rows, bundleMaps, 1, DefaultQtyPrecision)

	assert.Equal(t, int64(0), deltas["SO-KIT"])
}

func TestComputeBundleDeltaIgnoresPlainRows(t *testing.T) {
	rows := []models.ResultLocation{
		{ItemCode: "ITEM-1", PickedQty: decimal.NewFromInt(5), OrderItem: "SO-1"},
	}

	deltas := ComputeBundleDelta(rows, nil, 1, DefaultQtyPrecision)

	assert.Empty(t, deltas)
}
