// Package capacity derives per-day capacity ledgers for lanes from a set of
// assignments. Ledgers are recomputed from scratch on every call; nothing is
// cached between calls.
package capacity

import (
	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Level buckets a utilization rate for calendar colouring.
type Level string

const (
	LevelSafe       Level = "safe"
	LevelWarning    Level = "warning"
	LevelOverbooked Level = "overbooked"
)

// Thresholds are the utilization percentages at which a day turns warning and
// overbooked. A rate equal to Overbooked is still a warning.
type Thresholds struct {
	Warning    decimal.Decimal
	Overbooked decimal.Decimal
}

// DefaultThresholds: safe below 80%, warning up to 100%, overbooked above.
var DefaultThresholds = Thresholds{
	Warning:    decimal.NewFromInt(80),
	Overbooked: decimal.NewFromInt(100),
}

// Classify maps a utilization rate to a Level.
func (t Thresholds) Classify(rate decimal.Decimal) Level {
	switch {
	case rate.GreaterThan(t.Overbooked):
		return LevelOverbooked
	case rate.GreaterThanOrEqual(t.Warning):
		return LevelWarning
	default:
		return LevelSafe
	}
}

// Entry is the derived ledger for one lane on one date. UtilizationRate is
// rounded to two places; Level is classified on the exact rate, and any day
// with negative availability is overbooked.
type Entry struct {
	LaneID            uint            `json:"lane_id"`
	Date              string          `json:"date"`
	TotalCapacity     decimal.Decimal `json:"total_capacity"`
	AllocatedCapacity decimal.Decimal `json:"allocated_capacity"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
	UtilizationRate   decimal.Decimal `json:"utilization_rate"`
	AssignmentCount   int             `json:"assignment_count"`
	Level             Level           `json:"level"`
}

// Overbooked reports whether more capacity is allocated than the lane has.
func (e Entry) Overbooked() bool {
	return e.AvailableCapacity.IsNegative()
}

// Ledger computes entries using a set of thresholds.
type Ledger struct {
	Thresholds Thresholds
}

// New returns a Ledger using th.
func New(th Thresholds) Ledger {
	return Ledger{Thresholds: th}
}

// ComputeDay returns the ledger entry for lane on date using
// DefaultThresholds.
func ComputeDay(lane models.Lane, date string, assignments []models.LaneAssignment) Entry {
	return New(DefaultThresholds).ComputeDay(lane, date, assignments)
}

// ComputeRange returns one entry per date using DefaultThresholds.
func ComputeRange(lane models.Lane, dates []string, assignments []models.LaneAssignment) []Entry {
	return New(DefaultThresholds).ComputeRange(lane, dates, assignments)
}

// ComputeDay sums the allocations of every non-cancelled assignment of lane
// whose range covers date. It never fails; a zero-capacity lane reports a
// utilization of 0.
func (l Ledger) ComputeDay(lane models.Lane, date string, assignments []models.LaneAssignment) Entry {
	return l.compute(lane, date, assignments)
}

// ComputeRange returns one entry per date. Assignments are bucketed by lane
// once rather than rescanned for every date.
func (l Ledger) ComputeRange(lane models.Lane, dates []string, assignments []models.LaneAssignment) []Entry {
	return l.Range(NewIndex(assignments), lane, dates)
}

// Range computes entries for lane from a prebuilt index.
func (l Ledger) Range(idx Index, lane models.Lane, dates []string) []Entry {
	bucket := idx.ForLane(lane.ID)
	out := make([]Entry, len(dates))
	for i, d := range dates {
		out[i] = l.compute(lane, d, bucket)
	}
	return out
}

func (l Ledger) compute(lane models.Lane, date string, assignments []models.LaneAssignment) Entry {
	allocated := decimal.Zero
	count := 0
	for _, a := range assignments {
		if a.LaneID != lane.ID || a.Status == models.AssignmentCancelled {
			continue
		}
		if !interval.Covers(a.ScheduledStart, a.ScheduledEnd, date) {
			continue
		}
		allocated = allocated.Add(a.AllocatedCapacity)
		count++
	}

	total := lane.CapacityPerDay
	available := total.Sub(allocated)
	rate := decimal.Zero
	level := LevelSafe
	if !total.IsZero() {
		exact := allocated.Mul(hundred).Div(total)
		rate = exact.Round(2)
		level = l.Thresholds.Classify(exact)
	}
	// Rounding for display must never hide a shortfall.
	if available.IsNegative() {
		level = LevelOverbooked
	}

	return Entry{
		LaneID:            lane.ID,
		Date:              date,
		TotalCapacity:     total,
		AllocatedCapacity: allocated,
		AvailableCapacity: available,
		UtilizationRate:   rate,
		AssignmentCount:   count,
		Level:             level,
	}
}

// Overbooked returns the entries whose available capacity is negative.
func Overbooked(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Overbooked() {
			out = append(out, e)
		}
	}
	return out
}
