package schedule

import (
	"errors"
	"fmt"

	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// ListFilters holds optional filters for listing assignments. From/To select
// assignments whose range overlaps [From, To].
type ListFilters struct {
	LaneID      uint
	WorkOrderID uint
	Status      string
	From        string
	To          string
	db.PageRequest
}

// Create validates opts, checks the lane exists in scope and persists a new
// PLANNED assignment.
func Create(gormDB *gorm.DB, scope models.Scope, opts CreateOpts) (*models.LaneAssignment, error) {
	a, err := Build(scope, opts)
	if err != nil {
		return nil, err
	}
	if err := requireLane(gormDB, scope, a.LaneID); err != nil {
		return nil, err
	}
	if err := gormDB.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("schedule: create: %w", err)
	}
	return &a, nil
}

// Get retrieves an assignment by id within scope.
func Get(gormDB *gorm.DB, scope models.Scope, id uint) (*models.LaneAssignment, error) {
	var a models.LaneAssignment
	if err := gormDB.Scopes(db.InScope(scope)).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule: assignment %d: %w", id, fault.ErrNotFound)
		}
		return nil, fmt.Errorf("schedule: get %d: %w", id, err)
	}
	return &a, nil
}

// List returns a page of assignments matching filters, ordered by start date
// then priority.
func List(gormDB *gorm.DB, scope models.Scope, filters ListFilters) (db.Page[models.LaneAssignment], error) {
	q, err := filterQuery(gormDB, scope, filters)
	if err != nil {
		return db.Page[models.LaneAssignment]{}, err
	}
	page, err := db.Paginate[models.LaneAssignment](q, filters.PageRequest, "scheduled_start ASC, priority ASC, id ASC")
	if err != nil {
		return page, fmt.Errorf("schedule: list: %w", err)
	}
	return page, nil
}

// Window returns every assignment of the given lanes (all lanes when empty)
// overlapping [from, to], cancelled ones included. The ledger drops those.
func Window(gormDB *gorm.DB, scope models.Scope, laneIDs []uint, from, to string) ([]models.LaneAssignment, error) {
	q, err := filterQuery(gormDB, scope, ListFilters{From: from, To: to})
	if err != nil {
		return nil, err
	}
	if len(laneIDs) > 0 {
		q = q.Where("lane_id IN ?", laneIDs)
	}
	var out []models.LaneAssignment
	if err := q.Order("lane_id ASC, scheduled_start ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("schedule: window %s..%s: %w", from, to, err)
	}
	return out, nil
}

// Update applies a partial update to an assignment.
func Update(gormDB *gorm.DB, scope models.Scope, id uint, p Patch) (*models.LaneAssignment, error) {
	current, err := Get(gormDB, scope, id)
	if err != nil {
		return nil, err
	}
	next, err := ApplyPatch(*current, p)
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return current, nil
	}
	if err := gormDB.Save(&next).Error; err != nil {
		return nil, fmt.Errorf("schedule: update %d: %w", id, err)
	}
	return &next, nil
}

// Delete hard-deletes an assignment. Cancelling through Update is the normal
// way to withdraw one; Delete is for administrative cleanup.
func Delete(gormDB *gorm.DB, scope models.Scope, id uint) error {
	result := gormDB.Scopes(db.InScope(scope)).Where("id = ?", id).Delete(&models.LaneAssignment{})
	if result.Error != nil {
		return fmt.Errorf("schedule: delete %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("schedule: assignment %d: %w", id, fault.ErrNotFound)
	}
	return nil
}

func filterQuery(gormDB *gorm.DB, scope models.Scope, f ListFilters) (*gorm.DB, error) {
	q := gormDB.Model(&models.LaneAssignment{}).Scopes(db.InScope(scope))
	if f.LaneID != 0 {
		q = q.Where("lane_id = ?", f.LaneID)
	}
	if f.WorkOrderID != 0 {
		q = q.Where("work_order_id = ?", f.WorkOrderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != "" {
		if _, err := interval.Parse(f.From); err != nil {
			return nil, fault.Invalid("from", "must be a YYYY-MM-DD date")
		}
		q = q.Where("scheduled_end >= ?", f.From)
	}
	if f.To != "" {
		if _, err := interval.Parse(f.To); err != nil {
			return nil, fault.Invalid("to", "must be a YYYY-MM-DD date")
		}
		q = q.Where("scheduled_start <= ?", f.To)
	}
	return q, nil
}

func requireLane(gormDB *gorm.DB, scope models.Scope, laneID uint) error {
	var count int64
	if err := gormDB.Model(&models.Lane{}).Scopes(db.InScope(scope)).Where("id = ?", laneID).Count(&count).Error; err != nil {
		return fmt.Errorf("schedule: check lane %d: %w", laneID, err)
	}
	if count == 0 {
		return fault.Invalid("lane_id", "lane %d not found", laneID)
	}
	return nil
}
