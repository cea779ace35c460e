package ncr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

var severities = map[string]bool{
	models.SeverityMinor:    true,
	models.SeverityMajor:    true,
	models.SeverityCritical: true,
}

// CreateOpts holds parameters for raising an NCR.
type CreateOpts struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	WorkOrderID *uint  `json:"work_order_id"`
}

// ListFilters holds optional filters for listing NCRs.
type ListFilters struct {
	Status      string
	Severity    string
	WorkOrderID uint
	db.PageRequest
}

// NewNumber generates a human-facing NCR number such as "NCR-3F2A9C1B".
func NewNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "NCR-" + strings.ToUpper(id[:8])
}

// ForPlant returns the workflow stored on the scope's plant. A plant that is
// missing, or has no workflow recorded, runs fallback.
func ForPlant(gormDB *gorm.DB, scope models.Scope, fallback Workflow) (Workflow, error) {
	var plant models.Plant
	err := gormDB.Where("id = ? AND organization_id = ?", scope.PlantID, scope.OrganizationID).First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return Workflow{}, fmt.Errorf("ncr: load plant %d: %w", scope.PlantID, err)
	}
	if plant.NCRWorkflow == "" {
		return fallback, nil
	}
	return ForName(plant.NCRWorkflow)
}

// Create validates opts and persists an NCR in the workflow's initial status.
// A referenced work order must exist in scope.
func Create(gormDB *gorm.DB, scope models.Scope, w Workflow, opts CreateOpts) (*models.NCR, error) {
	opts.Title = strings.TrimSpace(opts.Title)
	if opts.Title == "" {
		return nil, fault.Invalid("title", "is required")
	}
	if opts.Severity == "" {
		opts.Severity = models.SeverityMinor
	}
	opts.Severity = strings.ToUpper(opts.Severity)
	if !severities[opts.Severity] {
		return nil, fault.Invalid("severity", "must be one of MINOR, MAJOR, CRITICAL")
	}
	if opts.WorkOrderID != nil {
		var count int64
		if err := gormDB.Model(&models.WorkOrder{}).Scopes(db.InScope(scope)).
			Where("id = ?", *opts.WorkOrderID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("ncr: check work order: %w", err)
		}
		if count == 0 {
			return nil, fault.Invalid("work_order_id", "work order %d not found", *opts.WorkOrderID)
		}
	}

	n := models.NCR{
		OrganizationID: scope.OrganizationID,
		PlantID:        scope.PlantID,
		Number:         NewNumber(),
		WorkOrderID:    opts.WorkOrderID,
		Title:          opts.Title,
		Description:    opts.Description,
		Severity:       opts.Severity,
		Status:         w.Initial(),
	}
	if err := gormDB.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("ncr: create: %w", err)
	}
	return &n, nil
}

// Get retrieves an NCR by id within scope.
func Get(gormDB *gorm.DB, scope models.Scope, id uint) (*models.NCR, error) {
	var n models.NCR
	if err := gormDB.Scopes(db.InScope(scope)).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ncr: %d: %w", id, fault.ErrNotFound)
		}
		return nil, fmt.Errorf("ncr: get %d: %w", id, err)
	}
	return &n, nil
}

// List returns a page of NCRs, newest first.
func List(gormDB *gorm.DB, scope models.Scope, filters ListFilters) (db.Page[models.NCR], error) {
	q := gormDB.Model(&models.NCR{}).Scopes(db.InScope(scope))
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Severity != "" {
		q = q.Where("severity = ?", strings.ToUpper(filters.Severity))
	}
	if filters.WorkOrderID != 0 {
		q = q.Where("work_order_id = ?", filters.WorkOrderID)
	}
	page, err := db.Paginate[models.NCR](q, filters.PageRequest, "created_at DESC, id DESC")
	if err != nil {
		return page, fmt.Errorf("ncr: list: %w", err)
	}
	return page, nil
}

// UpdateStatus moves the NCR to target under workflow w and saves it. The
// write is conditional on the status that was read.
func UpdateStatus(gormDB *gorm.DB, scope models.Scope, w Workflow, id uint, target string, p Payload) (*models.NCR, error) {
	current, err := Get(gormDB, scope, id)
	if err != nil {
		return nil, err
	}
	next, err := w.Transition(*current, target, p, time.Now())
	if err != nil {
		return nil, err
	}

	result := gormDB.Model(&models.NCR{}).
		Where("id = ? AND status = ?", id, current.Status).
		Updates(map[string]interface{}{
			"status":           next.Status,
			"resolution_notes": next.ResolutionNotes,
			"resolved_by":      next.ResolvedBy,
			"resolved_at":      next.ResolvedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("ncr: update status %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		latest, err := Get(gormDB, scope, id)
		if err != nil {
			return nil, err
		}
		return nil, &fault.IllegalTransitionError{
			Entity:  "ncr",
			From:    latest.Status,
			To:      target,
			Allowed: w.AllowedTransitions(latest.Status),
		}
	}
	return Get(gormDB, scope, id)
}
