package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/lane"
)

func newLaneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lane",
		Short: "Lane management commands",
	}

	cmd.AddCommand(newLaneCreateCmd())
	cmd.AddCommand(newLaneListCmd())
	cmd.AddCommand(newLaneUpdateCmd())
	return cmd
}

func newLaneCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       lane.CreateOpts
		capacity   string
		inactive   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lane",
		RunE: func(cmd *cobra.Command, args []string) error {
			perDay, err := decimal.NewFromString(capacity)
			if err != nil {
				return fmt.Errorf("invalid --capacity %q", capacity)
			}
			opts.CapacityPerDay = perDay
			if inactive {
				active := false
				opts.Active = &active
			}
			return runLaneCreate(cmd, configPath, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&opts.Code, "code", "", "lane code (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "lane name")
	cmd.Flags().StringVar(&capacity, "capacity", "", "capacity per day (required)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the lane inactive")
	cmd.MarkFlagRequired("code")
	cmd.MarkFlagRequired("capacity")
	return cmd
}

func runLaneCreate(cmd *cobra.Command, configPath string, opts lane.CreateOpts) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	l, err := lane.Create(s.db, s.scope, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created lane %s (id %d), capacity %s/day\n", l.Code, l.ID, l.CapacityPerDay)
	return nil
}

func newLaneListCmd() *cobra.Command {
	var (
		configPath string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lanes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaneList(cmd, configPath, activeOnly)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active lanes")
	return cmd
}

func runLaneList(cmd *cobra.Command, configPath string, activeOnly bool) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	lanes, err := lane.List(s.db, s.scope, activeOnly)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(lanes) == 0 {
		fmt.Fprintln(out, "No lanes found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tCAPACITY/DAY\tACTIVE")
	for _, l := range lanes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", l.ID, l.Code, dash(l.Name), l.CapacityPerDay, l.Active)
	}
	return w.Flush()
}

func newLaneUpdateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		capacity   string
		active     bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a lane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p lane.Patch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("capacity") {
				perDay, err := decimal.NewFromString(capacity)
				if err != nil {
					return fmt.Errorf("invalid --capacity %q", capacity)
				}
				p.CapacityPerDay = &perDay
			}
			if cmd.Flags().Changed("active") {
				p.Active = &active
			}
			return runLaneUpdate(cmd, configPath, id, p)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&name, "name", "", "lane name")
	cmd.Flags().StringVar(&capacity, "capacity", "", "capacity per day")
	cmd.Flags().BoolVar(&active, "active", true, "whether the lane is scheduled on the calendar")
	return cmd
}

func runLaneUpdate(cmd *cobra.Command, configPath string, id uint, p lane.Patch) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	l, err := lane.Update(s.db, s.scope, id, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated lane %s: capacity %s/day, active %t\n", l.Code, l.CapacityPerDay, l.Active)
	return nil
}
