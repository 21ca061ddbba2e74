package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "Draft"
	StatusOpen      = "Open"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

const (
	PurposeDelivery         = "Delivery"
	PurposeMaterialTransfer = "Material Transfer"
	PurposeManufacture      = "Material Transfer for Manufacture"
)

// PickList is one picking operation. Its locations table is rebuilt from
// scratch every time the allocation engine runs against it.
type PickList struct {
	ID              int              `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Company         string           `json:"company" db:"company"`
	Purpose         string           `json:"purpose" db:"purpose"`
	ParentWarehouse string           `json:"parent_warehouse" db:"parent_warehouse"`
	ForQty          decimal.Decimal  `json:"for_qty" db:"for_qty"`
	ScanMode        bool             `json:"scan_mode" db:"scan_mode"`
	Status          string           `json:"status" db:"status"`
	Locations       []ResultLocation `json:"locations" db:"-"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

func (p *PickList) IsFinal() bool {
	return p.Status == StatusOpen || p.Status == StatusCompleted
}

func (p *PickList) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "pick_list",
	}
}
