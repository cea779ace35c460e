package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/lane"
	"github.com/zulandar/laneyard/internal/schedule"
)

func newAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Lane assignment commands",
	}

	cmd.AddCommand(newAssignCreateCmd())
	cmd.AddCommand(newAssignUpdateCmd())
	cmd.AddCommand(newAssignDeleteCmd())
	cmd.AddCommand(newAssignListCmd())
	cmd.AddCommand(newAssignPositionCmd())
	return cmd
}

func newAssignCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       schedule.CreateOpts
		qty        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a work order onto a lane",
		Long:  "Creates a PLANNED assignment. Overbooking is allowed and reported after the assignment is saved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(qty)
			if err != nil {
				return fmt.Errorf("invalid --qty %q", qty)
			}
			opts.AllocatedCapacity = d
			return runAssignCreate(cmd, configPath, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().UintVar(&opts.LaneID, "lane", 0, "lane id (required)")
	cmd.Flags().UintVar(&opts.WorkOrderID, "order", 0, "work order id (required)")
	cmd.Flags().StringVar(&opts.ScheduledStart, "start", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.ScheduledEnd, "end", "", "last day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&qty, "qty", "", "capacity allocated per day (required)")
	cmd.Flags().IntVar(&opts.Priority, "priority", 0, "priority")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes")
	for _, f := range []string{"lane", "order", "start", "end", "qty"} {
		cmd.MarkFlagRequired(f)
	}
	return cmd
}

func runAssignCreate(cmd *cobra.Command, configPath string, opts schedule.CreateOpts) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	a, err := schedule.Create(s.db, s.scope, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created assignment %d: lane %d, %s..%s, %s/day\n",
		a.ID, a.LaneID, a.ScheduledStart, a.ScheduledEnd, a.AllocatedCapacity)
	return reportAdvice(cmd, s, a.ID)
}

func newAssignUpdateCmd() *cobra.Command {
	var (
		configPath string
		start, end string
		qty        string
		status     string
		notes      string
		priority   int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an assignment",
		Long:  "Updates only the flags given. Any assignment status may be set directly.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p schedule.Patch
			flags := cmd.Flags()
			if flags.Changed("start") {
				p.ScheduledStart = &start
			}
			if flags.Changed("end") {
				p.ScheduledEnd = &end
			}
			if flags.Changed("qty") {
				d, err := decimal.NewFromString(qty)
				if err != nil {
					return fmt.Errorf("invalid --qty %q", qty)
				}
				p.AllocatedCapacity = &d
			}
			if flags.Changed("status") {
				p.Status = &status
			}
			if flags.Changed("notes") {
				p.Notes = &notes
			}
			if flags.Changed("priority") {
				p.Priority = &priority
			}
			return runAssignUpdate(cmd, configPath, id, p)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&qty, "qty", "", "capacity allocated per day")
	cmd.Flags().StringVar(&status, "status", "", "PLANNED, ACTIVE, COMPLETED or CANCELLED")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority")
	return cmd
}

func runAssignUpdate(cmd *cobra.Command, configPath string, id uint, p schedule.Patch) error {
	if p.Empty() {
		return fmt.Errorf("nothing to update")
	}
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	a, err := schedule.Update(s.db, s.scope, id, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated assignment %d: %s..%s, %s/day, %s\n",
		a.ID, a.ScheduledStart, a.ScheduledEnd, a.AllocatedCapacity, a.Status)
	return reportAdvice(cmd, s, a.ID)
}

func newAssignDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(configPath)
			if err != nil {
				return err
			}
			if err := schedule.Delete(s.db, s.scope, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted assignment %d\n", id)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newAssignListCmd() *cobra.Command {
	var (
		configPath string
		filters    schedule.ListFilters
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignList(cmd, configPath, filters)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().UintVar(&filters.LaneID, "lane", 0, "filter by lane id")
	cmd.Flags().UintVar(&filters.WorkOrderID, "order", 0, "filter by work order id")
	cmd.Flags().StringVar(&filters.Status, "status", "", "filter by status")
	cmd.Flags().StringVar(&filters.From, "from", "", "overlapping on or after this date")
	cmd.Flags().StringVar(&filters.To, "to", "", "overlapping on or before this date")
	cmd.Flags().IntVar(&filters.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filters.PageSize, "page-size", 50, "page size")
	return cmd
}

func runAssignList(cmd *cobra.Command, configPath string, filters schedule.ListFilters) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	page, err := schedule.List(s.db, s.scope, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No assignments found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLANE\tORDER\tSTART\tEND\tQTY/DAY\tPRI\tSTATUS")
	for _, a := range page.Items {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\t%d\t%s\n",
			a.ID, a.LaneID, a.WorkOrderID, a.ScheduledStart, a.ScheduledEnd, a.AllocatedCapacity, a.Priority, a.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d, %d of %d assignment(s)\n", page.Page, len(page.Items), page.Total)
	return nil
}

func newAssignPositionCmd() *cobra.Command {
	var (
		configPath string
		start      string
		days       int
	)

	cmd := &cobra.Command{
		Use:   "position <id>",
		Short: "Show where an assignment falls on a calendar window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(configPath)
			if err != nil {
				return err
			}
			a, err := schedule.Get(s.db, s.scope, id)
			if err != nil {
				return err
			}
			if start == "" {
				start = today()
			}
			if days <= 0 {
				days = s.cfg.Calendar.Days
			}
			pos, err := schedule.PositionOnCalendar(*a, start, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "offset=%d width=%d visible=%t\n", pos.OffsetDays, pos.WidthDays, pos.Visible)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&start, "start", "", "calendar start date (default today)")
	cmd.Flags().IntVar(&days, "days", 0, "days shown (default from config)")
	return cmd
}

// reportAdvice prints the capacity of the assignment's lane across its dates
// and flags overbooked days.
func reportAdvice(cmd *cobra.Command, s *session, id uint) error {
	a, err := schedule.Get(s.db, s.scope, id)
	if err != nil {
		return err
	}
	l, err := lane.Get(s.db, s.scope, a.LaneID)
	if err != nil {
		return err
	}
	others, err := schedule.Window(s.db, s.scope, []uint{a.LaneID}, a.ScheduledStart, a.ScheduledEnd)
	if err != nil {
		return err
	}
	adv := schedule.Advise(s.ledger(), *a, *l, others)

	out := cmd.OutOrStdout()
	st := newStyles(out)
	for _, e := range adv.Entries {
		fmt.Fprintf(out, "  %s  %s / %s  %s\n", e.Date, e.AllocatedCapacity, e.TotalCapacity, st.level(e.Level, e.UtilizationRate.StringFixed(2)+"%"))
	}
	if adv.Overbooked {
		fmt.Fprintf(out, "%s lane %s is overbooked on %d day(s)\n", st.level(capacity.LevelOverbooked, "WARNING:"), l.Code, len(adv.OverbookedDays))
	}
	return nil
}
