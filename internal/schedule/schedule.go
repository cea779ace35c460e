// Package schedule implements the lane-assignment scheduler.
//
// The scheduler validates assignment shape only. It never refuses an
// assignment because a lane is overbooked; overbooking is a valid state that
// the capacity ledger reports for human review.
package schedule

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/models"
)

// CreateOpts holds parameters for creating a lane assignment.
type CreateOpts struct {
	LaneID            uint            `json:"lane_id"`
	WorkOrderID       uint            `json:"work_order_id"`
	ScheduledStart    string          `json:"scheduled_start"`
	ScheduledEnd      string          `json:"scheduled_end"`
	AllocatedCapacity decimal.Decimal `json:"allocated_capacity"`
	Priority          int             `json:"priority"`
	Notes             string          `json:"notes"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	AllocatedCapacity *decimal.Decimal `json:"allocated_capacity"`
	ScheduledStart    *string          `json:"scheduled_start"`
	ScheduledEnd      *string          `json:"scheduled_end"`
	Priority          *int             `json:"priority"`
	Status            *string          `json:"status"`
	Notes             *string          `json:"notes"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.AllocatedCapacity == nil && p.ScheduledStart == nil && p.ScheduledEnd == nil &&
		p.Priority == nil && p.Status == nil && p.Notes == nil
}

// Build validates opts and returns a new PLANNED assignment in scope. It does
// not consult other assignments.
func Build(scope models.Scope, opts CreateOpts) (models.LaneAssignment, error) {
	if opts.LaneID == 0 {
		return models.LaneAssignment{}, fault.Invalid("lane_id", "is required")
	}
	if opts.WorkOrderID == 0 {
		return models.LaneAssignment{}, fault.Invalid("work_order_id", "is required")
	}

	a := models.LaneAssignment{
		OrganizationID:    scope.OrganizationID,
		PlantID:           scope.PlantID,
		LaneID:            opts.LaneID,
		WorkOrderID:       opts.WorkOrderID,
		ScheduledStart:    opts.ScheduledStart,
		ScheduledEnd:      opts.ScheduledEnd,
		AllocatedCapacity: opts.AllocatedCapacity,
		Priority:          opts.Priority,
		Status:            models.AssignmentPlanned,
		Notes:             opts.Notes,
	}
	if err := validate(a); err != nil {
		return models.LaneAssignment{}, err
	}
	return a, nil
}

// ApplyPatch returns a copy of a with p applied. Status may move between any
// two assignment statuses; only membership in the status set is checked.
func ApplyPatch(a models.LaneAssignment, p Patch) (models.LaneAssignment, error) {
	next := a
	if p.AllocatedCapacity != nil {
		next.AllocatedCapacity = *p.AllocatedCapacity
	}
	if p.ScheduledStart != nil {
		next.ScheduledStart = *p.ScheduledStart
	}
	if p.ScheduledEnd != nil {
		next.ScheduledEnd = *p.ScheduledEnd
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Notes != nil {
		next.Notes = *p.Notes
	}
	if err := validate(next); err != nil {
		return a, err
	}
	return next, nil
}

func validate(a models.LaneAssignment) error {
	start, err := interval.Parse(a.ScheduledStart)
	if err != nil {
		return fault.Invalid("scheduled_start", "must be a YYYY-MM-DD date")
	}
	end, err := interval.Parse(a.ScheduledEnd)
	if err != nil {
		return fault.Invalid("scheduled_end", "must be a YYYY-MM-DD date")
	}
	if end.Before(start) {
		return fault.Invalid("scheduled_end", "must not be before scheduled_start")
	}
	if !a.AllocatedCapacity.IsPositive() {
		return fault.Invalid("allocated_capacity", "must be greater than 0")
	}
	if !slices.Contains(models.AssignmentStatuses, a.Status) {
		return fault.Invalid("status", "must be one of %v", models.AssignmentStatuses)
	}
	return nil
}

// Advice is the capacity picture across an assignment's dates, returned with
// create and update so callers can warn about overbooking.
type Advice struct {
	Entries        []capacity.Entry `json:"entries"`
	Overbooked     bool             `json:"overbooked"`
	OverbookedDays []string         `json:"overbooked_days,omitempty"`
}

// Advise computes the ledger of lane for every day of a, counting a together
// with others. An entry of others with the same id as a is replaced by a.
func Advise(ledger capacity.Ledger, a models.LaneAssignment, lane models.Lane, others []models.LaneAssignment) Advice {
	set := make([]models.LaneAssignment, 0, len(others)+1)
	for _, o := range others {
		if a.ID != 0 && o.ID == a.ID {
			continue
		}
		set = append(set, o)
	}
	set = append(set, a)

	start, err := interval.Parse(a.ScheduledStart)
	if err != nil {
		return Advice{}
	}
	span, err := interval.SpanOf(a.ScheduledStart, a.ScheduledEnd)
	if err != nil {
		return Advice{}
	}

	adv := Advice{Entries: ledger.ComputeRange(lane, interval.Days(start, span), set)}
	for _, e := range adv.Entries {
		if e.Overbooked() {
			adv.Overbooked = true
			adv.OverbookedDays = append(adv.OverbookedDays, e.Date)
		}
	}
	return adv
}
