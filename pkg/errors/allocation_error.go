package custom_error

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OverAllocationError aborts a whole allocation run: the picked quantity for
// one originating reference exceeds the over-picking allowance.
type OverAllocationError struct {
	ItemCode  string
	Reference string
	PickedQty decimal.Decimal
	LimitQty  decimal.Decimal
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf(
		"picking more than required quantity for item %s (reference %s): picked %s exceeds allowed %s, check other pick lists created for the same order",
		e.ItemCode, e.Reference, e.PickedQty, e.LimitQty,
	)
}

type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}
