package models

import "time"

// NCR statuses for the review workflow.
const (
	NCROpen     = "OPEN"
	NCRInReview = "IN_REVIEW"
	NCRResolved = "RESOLVED"
	NCRClosed   = "CLOSED"
)

// NCR statuses only used by the legacy investigation workflow.
const (
	NCRInvestigating    = "INVESTIGATING"
	NCRCorrectiveAction = "CORRECTIVE_ACTION"
	NCRRejected         = "REJECTED"
)

// NCR severities.
const (
	SeverityMinor    = "MINOR"
	SeverityMajor    = "MAJOR"
	SeverityCritical = "CRITICAL"
)

// NCR is a non-conformance report.
type NCR struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OrganizationID  uint       `gorm:"index" json:"organization_id"`
	PlantID         uint       `gorm:"index" json:"plant_id"`
	Number          string     `gorm:"size:16;not null;uniqueIndex" json:"number"`
	WorkOrderID     *uint      `gorm:"index" json:"work_order_id,omitempty"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Severity        string     `gorm:"size:16;default:MINOR" json:"severity"`
	Status          string     `gorm:"size:24;default:OPEN;index" json:"status"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes,omitempty"`
	ResolvedBy      string     `gorm:"size:64" json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName keeps the table name readable; gorm would otherwise produce "nc_rs".
func (NCR) TableName() string { return "ncrs" }
