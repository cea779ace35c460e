package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/calendar"
)

func newCalendarCmd() *cobra.Command {
	var (
		configPath string
		start      string
		days       int
		blocks     bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show lane utilization per day",
		Long:  "Prints one row per active lane with the utilization of each day in the window. Use --blocks to list the assignments drawn on each lane.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendar(cmd, configPath, start, days, blocks)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default today)")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "days to show (default from config)")
	cmd.Flags().BoolVar(&blocks, "blocks", false, "list assignment blocks per lane")
	return cmd
}

func runCalendar(cmd *cobra.Command, configPath, start string, days int, blocks bool) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	if start == "" {
		start = today()
	}
	if days <= 0 {
		days = s.cfg.Calendar.Days
	}

	view, err := calendar.Load(s.db, s.scope, s.ledger(), start, days)
	if err != nil {
		return err
	}
	return printCalendar(cmd, view, blocks)
}

func printCalendar(cmd *cobra.Command, view calendar.View, blocks bool) error {
	out := cmd.OutOrStdout()
	if len(view.Rows) == 0 {
		fmt.Fprintln(out, "No active lanes.")
		return nil
	}
	st := newStyles(out)

	fmt.Fprintf(out, "%s  %s..%s\n\n", st.bold("Calendar"), view.Start, view.End)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"LANE", "CAP/DAY"}
	for _, d := range view.Dates {
		header = append(header, d[5:])
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range view.Rows {
		cells := []string{row.Lane.Code, row.Lane.CapacityPerDay.String()}
		for _, e := range row.Entries {
			cells = append(cells, st.level(e.Level, e.UtilizationRate.StringFixed(0)+"%"))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, row := range view.Rows {
		sum := row.Summary
		fmt.Fprintf(out, "%-10s peak %s%% on %s, %d warning day(s), %d overbooked day(s)\n",
			row.Lane.Code, sum.PeakUtilization.StringFixed(2), dash(sum.PeakDate), sum.WarningDays, sum.OverbookedDays)
		if !blocks {
			continue
		}
		for _, b := range row.Blocks {
			a := b.Assignment
			fmt.Fprintf(out, "    #%d order %d  %s..%s  %s/day  %s  [+%d, %dd]\n",
				a.ID, a.WorkOrderID, a.ScheduledStart, a.ScheduledEnd, a.AllocatedCapacity, a.Status,
				b.Position.OffsetDays, b.Position.WidthDays)
		}
	}
	if view.OverbookedDays > 0 {
		fmt.Fprintf(out, "\n%d overbooked lane-day(s) in window\n", view.OverbookedDays)
	}
	return nil
}
