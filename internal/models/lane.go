package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lane is a schedulable production resource with a fixed daily capacity.
type Lane struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"index" json:"organization_id"`
	PlantID        uint            `gorm:"index;uniqueIndex:idx_lane_plant_code" json:"plant_id"`
	Code           string          `gorm:"size:32;not null;uniqueIndex:idx_lane_plant_code" json:"code"`
	Name           string          `gorm:"size:128" json:"name"`
	CapacityPerDay decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"capacity_per_day"`
	Active         bool            `gorm:"not null" json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
