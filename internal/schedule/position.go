package schedule

import (
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/models"
)

// Position places an assignment block on a calendar. Offsets and widths are
// not clipped to the visible window; clipping is the renderer's job.
type Position struct {
	OffsetDays int  `json:"offset_days"`
	WidthDays  int  `json:"width_days"`
	Visible    bool `json:"visible"`
}

// PositionOnCalendar computes the block for a on a calendar starting at
// calendarStart and showing daysToShow days. Visible reports whether any part
// of the block falls inside the window.
func PositionOnCalendar(a models.LaneAssignment, calendarStart string, daysToShow int) (Position, error) {
	offset, err := interval.OffsetOf(calendarStart, a.ScheduledStart)
	if err != nil {
		return Position{}, err
	}
	width, err := interval.SpanOf(a.ScheduledStart, a.ScheduledEnd)
	if err != nil {
		return Position{}, err
	}
	return Position{
		OffsetDays: offset,
		WidthDays:  width,
		Visible:    offset < daysToShow && offset+width > 0,
	}, nil
}
