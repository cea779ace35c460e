// Package lane manages the production lanes assignments are scheduled onto.
package lane

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a lane. Active defaults to true.
type CreateOpts struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	CapacityPerDay decimal.Decimal `json:"capacity_per_day"`
	Active         *bool           `json:"active"`
}

// Patch holds the optional fields of a lane update.
type Patch struct {
	Name           *string          `json:"name"`
	CapacityPerDay *decimal.Decimal `json:"capacity_per_day"`
	Active         *bool            `json:"active"`
}

// Create validates opts and persists a lane.
func Create(gormDB *gorm.DB, scope models.Scope, opts CreateOpts) (*models.Lane, error) {
	opts.Code = strings.TrimSpace(opts.Code)
	if opts.Code == "" {
		return nil, fault.Invalid("code", "is required")
	}
	if opts.CapacityPerDay.IsNegative() {
		return nil, fault.Invalid("capacity_per_day", "must not be negative")
	}

	var count int64
	if err := gormDB.Model(&models.Lane{}).Scopes(db.InScope(scope)).
		Where("code = ?", opts.Code).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lane: check code: %w", err)
	}
	if count > 0 {
		return nil, fault.Invalid("code", "lane %s already exists", opts.Code)
	}

	active := true
	if opts.Active != nil {
		active = *opts.Active
	}
	l := models.Lane{
		OrganizationID: scope.OrganizationID,
		PlantID:        scope.PlantID,
		Code:           opts.Code,
		Name:           opts.Name,
		CapacityPerDay: opts.CapacityPerDay,
		Active:         active,
	}
	if err := gormDB.Create(&l).Error; err != nil {
		return nil, fmt.Errorf("lane: create: %w", err)
	}
	return &l, nil
}

// Get retrieves a lane by id within scope.
func Get(gormDB *gorm.DB, scope models.Scope, id uint) (*models.Lane, error) {
	var l models.Lane
	if err := gormDB.Scopes(db.InScope(scope)).Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lane: %d: %w", id, fault.ErrNotFound)
		}
		return nil, fmt.Errorf("lane: get %d: %w", id, err)
	}
	return &l, nil
}

// List returns every lane in scope ordered by code. When activeOnly is set,
// inactive lanes are left out.
func List(gormDB *gorm.DB, scope models.Scope, activeOnly bool) ([]models.Lane, error) {
	q := gormDB.Scopes(db.InScope(scope))
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var lanes []models.Lane
	if err := q.Order("code ASC, id ASC").Find(&lanes).Error; err != nil {
		return nil, fmt.Errorf("lane: list: %w", err)
	}
	return lanes, nil
}

// Update applies a patch to a lane.
func Update(gormDB *gorm.DB, scope models.Scope, id uint, p Patch) (*models.Lane, error) {
	l, err := Get(gormDB, scope, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.CapacityPerDay != nil {
		if p.CapacityPerDay.IsNegative() {
			return nil, fault.Invalid("capacity_per_day", "must not be negative")
		}
		updates["capacity_per_day"] = *p.CapacityPerDay
	}
	if p.Active != nil {
		updates["active"] = *p.Active
	}
	if len(updates) == 0 {
		return l, nil
	}
	if err := gormDB.Model(&models.Lane{}).Where("id = ?", l.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("lane: update %d: %w", id, err)
	}
	return Get(gormDB, scope, id)
}
