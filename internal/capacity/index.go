package capacity

import (
	"github.com/zulandar/laneyard/internal/models"
)

// Index buckets assignments by lane so that a lanes × days calendar scans
// each lane's assignments only. Cancelled assignments are dropped up front.
type Index struct {
	byLane map[uint][]models.LaneAssignment
}

// NewIndex buckets assignments by lane id.
func NewIndex(assignments []models.LaneAssignment) Index {
	idx := Index{byLane: make(map[uint][]models.LaneAssignment)}
	for _, a := range assignments {
		if a.Status == models.AssignmentCancelled {
			continue
		}
		idx.byLane[a.LaneID] = append(idx.byLane[a.LaneID], a)
	}
	return idx
}

// ForLane returns the live assignments of one lane.
func (idx Index) ForLane(laneID uint) []models.LaneAssignment {
	return idx.byLane[laneID]
}

// Row is one lane's ledger across a date range.
type Row struct {
	Lane    models.Lane `json:"lane"`
	Entries []Entry     `json:"entries"`
}

// Grid computes a row per lane for the given dates.
func (l Ledger) Grid(lanes []models.Lane, dates []string, idx Index) []Row {
	rows := make([]Row, len(lanes))
	for i, lane := range lanes {
		rows[i] = Row{Lane: lane, Entries: l.Range(idx, lane, dates)}
	}
	return rows
}
