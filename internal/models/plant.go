package models

import "time"

// Plant is a manufacturing site. Lanes, assignments, work orders and NCRs are
// partitioned by plant.
type Plant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"uniqueIndex:idx_plant_org_code" json:"organization_id"`
	Code           string    `gorm:"size:32;not null;uniqueIndex:idx_plant_org_code" json:"code"`
	Name           string    `gorm:"size:128" json:"name"`
	NCRWorkflow    string    `gorm:"size:16;default:review" json:"ncr_workflow"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
