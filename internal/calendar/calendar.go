// Package calendar assembles the lanes × days scheduling view: a capacity
// ledger per lane plus the positioned assignment blocks drawn over it.
package calendar

import (
	"fmt"

	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/lane"
	"github.com/zulandar/laneyard/internal/models"
	"github.com/zulandar/laneyard/internal/schedule"
	"gorm.io/gorm"
)

// MaxDays bounds the width of a calendar request.
const MaxDays = 366

// Block is an assignment with its position on the calendar.
type Block struct {
	Assignment models.LaneAssignment `json:"assignment"`
	Position   schedule.Position     `json:"position"`
}

// LaneRow is one lane of the calendar.
type LaneRow struct {
	Lane    models.Lane      `json:"lane"`
	Entries []capacity.Entry `json:"entries"`
	Summary capacity.Summary `json:"summary"`
	Blocks  []Block          `json:"blocks"`
}

// View is a computed calendar window.
type View struct {
	Start          string    `json:"start"`
	End            string    `json:"end"`
	Dates          []string  `json:"dates"`
	Rows           []LaneRow `json:"rows"`
	OverbookedDays int       `json:"overbooked_days"`
}

// Build computes the view for lanes over days dates from start. Blocks are
// included for every assignment visible in the window, cancelled ones too;
// the ledger ignores cancelled assignments.
func Build(ledger capacity.Ledger, lanes []models.Lane, assignments []models.LaneAssignment, start string, days int) (View, error) {
	first, err := interval.Parse(start)
	if err != nil {
		return View{}, fault.Invalid("start", "must be a YYYY-MM-DD date")
	}
	if days < 1 || days > MaxDays {
		return View{}, fault.Invalid("days", "must be between 1 and %d", MaxDays)
	}

	dates := interval.Days(first, days)
	view := View{
		Start: dates[0],
		End:   dates[len(dates)-1],
		Dates: dates,
		Rows:  make([]LaneRow, 0, len(lanes)),
	}

	blocks := make(map[uint][]Block)
	for _, a := range assignments {
		pos, err := schedule.PositionOnCalendar(a, view.Start, days)
		if err != nil {
			return View{}, fmt.Errorf("calendar: assignment %d: %w", a.ID, err)
		}
		if !pos.Visible {
			continue
		}
		blocks[a.LaneID] = append(blocks[a.LaneID], Block{Assignment: a, Position: pos})
	}

	for _, row := range ledger.Grid(lanes, dates, capacity.NewIndex(assignments)) {
		summary := capacity.Summarize(row.Entries)
		view.OverbookedDays += summary.OverbookedDays
		view.Rows = append(view.Rows, LaneRow{
			Lane:    row.Lane,
			Entries: row.Entries,
			Summary: summary,
			Blocks:  blocks[row.Lane.ID],
		})
	}
	return view, nil
}

// Load reads the active lanes of scope and the assignments overlapping the
// window, then builds the view.
func Load(gormDB *gorm.DB, scope models.Scope, ledger capacity.Ledger, start string, days int) (View, error) {
	if days < 1 || days > MaxDays {
		return View{}, fault.Invalid("days", "must be between 1 and %d", MaxDays)
	}
	end, err := interval.AddDays(start, days-1)
	if err != nil {
		return View{}, fault.Invalid("start", "must be a YYYY-MM-DD date")
	}

	lanes, err := lane.List(gormDB, scope, true)
	if err != nil {
		return View{}, err
	}
	ids := make([]uint, len(lanes))
	for i, l := range lanes {
		ids[i] = l.ID
	}
	var assignments []models.LaneAssignment
	if len(ids) > 0 {
		assignments, err = schedule.Window(gormDB, scope, ids, start, end)
		if err != nil {
			return View{}, err
		}
	}
	return Build(ledger, lanes, assignments, start, days)
}
