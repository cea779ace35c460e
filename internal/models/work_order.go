package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Work order statuses.
const (
	OrderPlanned    = "PLANNED"
	OrderReleased   = "RELEASED"
	OrderInProgress = "IN_PROGRESS"
	OrderCompleted  = "COMPLETED"
	OrderCancelled  = "CANCELLED"
)

// WorkOrder is a production order whose status is governed by the order
// lifecycle.
type WorkOrder struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrganizationID  uint            `gorm:"index" json:"organization_id"`
	PlantID         uint            `gorm:"index;uniqueIndex:idx_order_plant_number" json:"plant_id"`
	OrderNumber     string          `gorm:"size:32;not null;uniqueIndex:idx_order_plant_number" json:"order_number"`
	ProductCode     string          `gorm:"size:64" json:"product_code"`
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"planned_quantity"`
	ActualQuantity  decimal.Decimal `gorm:"type:decimal(14,4);default:0" json:"actual_quantity"`
	OrderStatus     string          `gorm:"size:16;default:PLANNED;index" json:"order_status"`
	Priority        int             `gorm:"default:0" json:"priority"`
	PlannedStart    string          `gorm:"size:10" json:"planned_start,omitempty"`
	PlannedEnd      string          `gorm:"size:10" json:"planned_end,omitempty"`
	StartDateActual *time.Time      `json:"start_date_actual,omitempty"`
	EndDateActual   *time.Time      `json:"end_date_actual,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
