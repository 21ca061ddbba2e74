package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DiagnosticCode string

const (
	// DiagInsufficientStock: the requested quantity is not fully available.
	DiagInsufficientStock DiagnosticCode = "insufficient_stock"
	// DiagAlreadyPicked: stock exists but is claimed by other open pick lists.
	DiagAlreadyPicked DiagnosticCode = "already_picked"
	// DiagOutOfStock: allocation produced no rows for an already submitted
	// pick list; previous rows were kept with zeroed quantities.
	DiagOutOfStock DiagnosticCode = "out_of_stock"
)

// Diagnostic is a non-fatal warning collected during an allocation run and
// returned alongside the result.
type Diagnostic struct {
	Code     DiagnosticCode  `json:"code"`
	ItemCode string          `json:"item_code,omitempty"`
	Qty      decimal.Decimal `json:"qty"`
	Message  string          `json:"message"`
}

func insufficientStock(itemCode string, qty decimal.Decimal) Diagnostic {
	return Diagnostic{
		Code:     DiagInsufficientStock,
		ItemCode: itemCode,
		Qty:      qty,
		Message:  fmt.Sprintf("%s units of item %s are not available", qty, itemCode),
	}
}

func alreadyPicked(itemCode string, qty decimal.Decimal) Diagnostic {
	return Diagnostic{
		Code:     DiagAlreadyPicked,
		ItemCode: itemCode,
		Qty:      qty,
		Message:  fmt.Sprintf("%s units of item %s are picked in another pick list", qty, itemCode),
	}
}

func outOfStock() Diagnostic {
	return Diagnostic{
		Code:    DiagOutOfStock,
		Message: "no stock could be assigned, restock items and update the pick list to continue, or cancel it",
	}
}
