package capacity

import "github.com/shopspring/decimal"

// Summary condenses a row of entries for digests and list views.
type Summary struct {
	Days            int             `json:"days"`
	OverbookedDays  int             `json:"overbooked_days"`
	WarningDays     int             `json:"warning_days"`
	PeakUtilization decimal.Decimal `json:"peak_utilization"`
	PeakDate        string          `json:"peak_date,omitempty"`
	WorstShortfall  decimal.Decimal `json:"worst_shortfall"`
}

// Summarize aggregates entries. OverbookedDays counts days with negative
// availability, the same test Overbooked applies; WarningDays counts the
// remaining days at or above the warning threshold. WorstShortfall is the most
// negative available capacity seen, reported as a positive amount (zero when
// never overbooked).
func Summarize(entries []Entry) Summary {
	s := Summary{Days: len(entries)}
	for _, e := range entries {
		switch {
		case e.Overbooked():
			s.OverbookedDays++
		case e.Level != LevelSafe:
			s.WarningDays++
		}
		if s.PeakDate == "" || e.UtilizationRate.GreaterThan(s.PeakUtilization) {
			s.PeakUtilization = e.UtilizationRate
			s.PeakDate = e.Date
		}
		if short := e.AvailableCapacity.Neg(); short.GreaterThan(s.WorstShortfall) {
			s.WorstShortfall = short
		}
	}
	return s
}
