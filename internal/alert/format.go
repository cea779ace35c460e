package alert

import (
	"fmt"
	"strings"
)

// maxListedDays caps the per-lane day list in a message body.
const maxListedDays = 10

// FormatDigest renders a digest as a chat message with one event per lane.
func FormatDigest(d *Digest) Message {
	days := 0
	for _, l := range d.Lanes {
		days += len(l.Days)
	}
	msg := Message{
		Text: fmt.Sprintf("Overbooking: %d lane(s), %d lane-day(s) between %s and %s",
			len(d.Lanes), days, d.Start, d.End),
	}
	for _, l := range d.Lanes {
		msg.Events = append(msg.Events, formatLane(l))
	}
	return msg
}

func formatLane(l LaneDigest) Event {
	title := l.Lane.Code
	if l.Lane.Name != "" {
		title = fmt.Sprintf("%s (%s)", l.Lane.Code, l.Lane.Name)
	}

	var b strings.Builder
	for i, e := range l.Days {
		if i == maxListedDays {
			fmt.Fprintf(&b, "…and %d more\n", len(l.Days)-maxListedDays)
			break
		}
		fmt.Fprintf(&b, "%s: %s of %s allocated (%s%%)\n",
			e.Date, e.AllocatedCapacity.String(), e.TotalCapacity.String(), e.UtilizationRate.StringFixed(2))
	}

	return Event{
		Title: "Lane " + title + " is overbooked",
		Body:  strings.TrimRight(b.String(), "\n"),
		Color: ColorOverbooked,
		Fields: []Field{
			{Name: "Overbooked days", Value: fmt.Sprintf("%d", l.Summary.OverbookedDays), Short: true},
			{Name: "Peak", Value: fmt.Sprintf("%s%% on %s", l.Summary.PeakUtilization.StringFixed(2), l.Summary.PeakDate), Short: true},
			{Name: "Worst shortfall", Value: l.Summary.WorstShortfall.String(), Short: true},
		},
	}
}
