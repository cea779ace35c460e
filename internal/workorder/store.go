package workorder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a work order.
type CreateOpts struct {
	OrderNumber     string          `json:"order_number"`
	ProductCode     string          `json:"product_code"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
	Priority        int             `json:"priority"`
	PlannedStart    string          `json:"planned_start"`
	PlannedEnd      string          `json:"planned_end"`
	Notes           string          `json:"notes"`
}

// ListFilters holds optional filters for listing work orders.
type ListFilters struct {
	Status      string
	ProductCode string
	db.PageRequest
}

// Create validates opts and persists a PLANNED work order.
func Create(gormDB *gorm.DB, scope models.Scope, opts CreateOpts) (*models.WorkOrder, error) {
	opts.OrderNumber = strings.TrimSpace(opts.OrderNumber)
	if opts.OrderNumber == "" {
		return nil, fault.Invalid("order_number", "is required")
	}
	if !opts.PlannedQuantity.IsPositive() {
		return nil, fault.Invalid("planned_quantity", "must be greater than 0")
	}
	if opts.PlannedStart != "" {
		if _, err := interval.Parse(opts.PlannedStart); err != nil {
			return nil, fault.Invalid("planned_start", "must be a YYYY-MM-DD date")
		}
	}
	if opts.PlannedEnd != "" {
		if _, err := interval.Parse(opts.PlannedEnd); err != nil {
			return nil, fault.Invalid("planned_end", "must be a YYYY-MM-DD date")
		}
		if opts.PlannedStart != "" && opts.PlannedEnd < opts.PlannedStart {
			return nil, fault.Invalid("planned_end", "must not be before planned_start")
		}
	}

	var count int64
	if err := gormDB.Model(&models.WorkOrder{}).Scopes(db.InScope(scope)).
		Where("order_number = ?", opts.OrderNumber).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("workorder: check order number: %w", err)
	}
	if count > 0 {
		return nil, fault.Invalid("order_number", "%s already exists", opts.OrderNumber)
	}

	order := models.WorkOrder{
		OrganizationID:  scope.OrganizationID,
		PlantID:         scope.PlantID,
		OrderNumber:     opts.OrderNumber,
		ProductCode:     opts.ProductCode,
		PlannedQuantity: opts.PlannedQuantity,
		ActualQuantity:  decimal.Zero,
		OrderStatus:     Table.Initial(),
		Priority:        opts.Priority,
		PlannedStart:    opts.PlannedStart,
		PlannedEnd:      opts.PlannedEnd,
		Notes:           opts.Notes,
	}
	if err := gormDB.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("workorder: create: %w", err)
	}
	return &order, nil
}

// Get retrieves a work order by id within scope.
func Get(gormDB *gorm.DB, scope models.Scope, id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	if err := gormDB.Scopes(db.InScope(scope)).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workorder: %d: %w", id, fault.ErrNotFound)
		}
		return nil, fmt.Errorf("workorder: get %d: %w", id, err)
	}
	return &order, nil
}

// List returns a page of work orders, highest priority first.
func List(gormDB *gorm.DB, scope models.Scope, filters ListFilters) (db.Page[models.WorkOrder], error) {
	q := gormDB.Model(&models.WorkOrder{}).Scopes(db.InScope(scope))
	if filters.Status != "" {
		q = q.Where("order_status = ?", filters.Status)
	}
	if filters.ProductCode != "" {
		q = q.Where("product_code = ?", filters.ProductCode)
	}
	page, err := db.Paginate[models.WorkOrder](q, filters.PageRequest, "priority DESC, created_at ASC, id ASC")
	if err != nil {
		return page, fmt.Errorf("workorder: list: %w", err)
	}
	return page, nil
}

// ApplyTransition loads the order, runs the lifecycle transition and saves
// the result. The write is conditional on the status it was read with, so a
// concurrent transition surfaces as an IllegalTransitionError rather than
// being overwritten.
func ApplyTransition(gormDB *gorm.DB, scope models.Scope, id uint, action Action, in TransitionInput) (*models.WorkOrder, error) {
	current, err := Get(gormDB, scope, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(*current, action, in, time.Now())
	if err != nil {
		return nil, err
	}

	result := gormDB.Model(&models.WorkOrder{}).
		Where("id = ? AND order_status = ?", id, current.OrderStatus).
		Updates(map[string]interface{}{
			"order_status":      next.OrderStatus,
			"actual_quantity":   next.ActualQuantity,
			"start_date_actual": next.StartDateActual,
			"end_date_actual":   next.EndDateActual,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("workorder: %s %d: %w", action, id, result.Error)
	}
	if result.RowsAffected == 0 {
		latest, err := Get(gormDB, scope, id)
		if err != nil {
			return nil, err
		}
		return nil, &fault.IllegalTransitionError{
			Entity:  "work_order",
			From:    latest.OrderStatus,
			To:      action.Target(),
			Action:  string(action),
			Allowed: Table.Allowed(latest.OrderStatus),
		}
	}
	return Get(gormDB, scope, id)
}
