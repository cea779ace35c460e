package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Assignment statuses. Transitions between them are unconstrained.
const (
	AssignmentPlanned   = "PLANNED"
	AssignmentActive    = "ACTIVE"
	AssignmentCompleted = "COMPLETED"
	AssignmentCancelled = "CANCELLED"
)

// AssignmentStatuses lists every valid assignment status.
var AssignmentStatuses = []string{AssignmentPlanned, AssignmentActive, AssignmentCompleted, AssignmentCancelled}

// LaneAssignment reserves AllocatedCapacity units of a lane's daily capacity
// for a work order on every day of [ScheduledStart, ScheduledEnd].
type LaneAssignment struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrganizationID    uint            `gorm:"index" json:"organization_id"`
	PlantID           uint            `gorm:"index" json:"plant_id"`
	LaneID            uint            `gorm:"not null;index:idx_assignment_lane_dates" json:"lane_id"`
	WorkOrderID       uint            `gorm:"not null;index" json:"work_order_id"`
	ScheduledStart    string          `gorm:"size:10;not null;index:idx_assignment_lane_dates" json:"scheduled_start"`
	ScheduledEnd      string          `gorm:"size:10;not null;index:idx_assignment_lane_dates" json:"scheduled_end"`
	AllocatedCapacity decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"allocated_capacity"`
	Priority          int             `gorm:"default:0" json:"priority"`
	Status            string          `gorm:"size:16;default:PLANNED;index" json:"status"`
	Notes             string          `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
