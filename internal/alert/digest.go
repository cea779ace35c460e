package alert

import (
	"fmt"

	"github.com/zulandar/laneyard/internal/calendar"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// Digest lists the lanes that are overbooked somewhere in a window.
type Digest struct {
	Start string
	End   string
	Lanes []LaneDigest
}

// LaneDigest is one overbooked lane.
type LaneDigest struct {
	Lane    models.Lane
	Summary capacity.Summary
	Days    []capacity.Entry // overbooked days only, in date order
}

// DigestFromView extracts the overbooked lanes of a calendar view. It returns
// nil when no lane is overbooked on any day.
func DigestFromView(view calendar.View) *Digest {
	d := &Digest{Start: view.Start, End: view.End}
	for _, row := range view.Rows {
		days := capacity.Overbooked(row.Entries)
		if len(days) == 0 {
			continue
		}
		d.Lanes = append(d.Lanes, LaneDigest{Lane: row.Lane, Summary: row.Summary, Days: days})
	}
	if len(d.Lanes) == 0 {
		return nil
	}
	return d
}

// BuildDigest loads the next days days from start and returns the digest,
// or nil when nothing is overbooked.
func BuildDigest(gormDB *gorm.DB, scope models.Scope, ledger capacity.Ledger, start string, days int) (*Digest, error) {
	view, err := calendar.Load(gormDB, scope, ledger, start, days)
	if err != nil {
		return nil, fmt.Errorf("alert: digest: %w", err)
	}
	return DigestFromView(view), nil
}
