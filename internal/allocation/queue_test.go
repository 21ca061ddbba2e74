package allocation

import (
	"testing"

	"picking/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCandidateQueueOrder(t *testing.T) {
	queue := NewCandidateQueue([]models.LocationCandidate{
		{Warehouse: "WH-A", Qty: decimal.NewFromInt(4)},
		{Warehouse: "WH-B", Qty: decimal.NewFromInt(20)},
	})

	assert.Equal(t, 2, queue.Len())

	first, ok := queue.PopFront()
	assert.True(t, ok)
	assert.Equal(t, "WH-A", first.Warehouse)

	queue.PushFront(models.LocationCandidate{Warehouse: "WH-A", Qty: decimal.NewFromInt(1)})

	front, ok := queue.PopFront()
	assert.True(t, ok)
	assert.Equal(t, "WH-A", front.Warehouse)
	assert.True(t, front.Qty.Equal(decimal.NewFromInt(1)))

	next, ok := queue.PopFront()
	assert.True(t, ok)
	assert.Equal(t, "WH-B", next.Warehouse)

	assert.True(t, queue.Empty())
	_, ok = queue.PopFront()
	assert.False(t, ok)
}
