package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/ncr"
)

func newNCRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ncr",
		Short: "Non-conformance report commands",
	}

	cmd.AddCommand(newNCRCreateCmd())
	cmd.AddCommand(newNCRListCmd())
	cmd.AddCommand(newNCRShowCmd())
	cmd.AddCommand(newNCRStatusCmd())
	return cmd
}

// workflow returns the NCR workflow recorded on the session's plant, or the
// configured one when the plant has none.
func (s *session) workflow() (ncr.Workflow, error) {
	configured, err := ncr.ForName(s.cfg.NCR.Workflow)
	if err != nil {
		return ncr.Workflow{}, err
	}
	return ncr.ForPlant(s.db, s.scope, configured)
}

func newNCRCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       ncr.CreateOpts
		orderID    uint
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a non-conformance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orderID != 0 {
				opts.WorkOrderID = &orderID
			}
			return runNCRCreate(cmd, configPath, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&opts.Title, "title", "", "title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "MINOR, MAJOR or CRITICAL (default MINOR)")
	cmd.Flags().UintVar(&orderID, "order", 0, "related work order id")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runNCRCreate(cmd *cobra.Command, configPath string, opts ncr.CreateOpts) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	w, err := s.workflow()
	if err != nil {
		return err
	}
	n, err := ncr.Create(s.db, s.scope, w, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (id %d, %s, %s)\n", n.Number, n.ID, n.Severity, n.Status)
	return nil
}

func newNCRListCmd() *cobra.Command {
	var (
		configPath string
		filters    ncr.ListFilters
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List non-conformance reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNCRList(cmd, configPath, filters)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&filters.Status, "status", "", "filter by status")
	cmd.Flags().StringVar(&filters.Severity, "severity", "", "filter by severity")
	cmd.Flags().UintVar(&filters.WorkOrderID, "order", 0, "filter by work order id")
	cmd.Flags().IntVar(&filters.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filters.PageSize, "page-size", 50, "page size")
	return cmd
}

func runNCRList(cmd *cobra.Command, configPath string, filters ncr.ListFilters) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	page, err := ncr.List(s.db, s.scope, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No NCRs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tSEVERITY\tSTATUS\tORDER\tTITLE")
	for _, n := range page.Items {
		order := "-"
		if n.WorkOrderID != nil {
			order = fmt.Sprint(*n.WorkOrderID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", n.ID, n.Number, n.Severity, n.Status, order, n.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d, %d of %d NCR(s)\n", page.Page, len(page.Items), page.Total)
	return nil
}

func newNCRShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a non-conformance report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runNCRShow(cmd, configPath, id)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runNCRShow(cmd *cobra.Command, configPath string, id uint) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	w, err := s.workflow()
	if err != nil {
		return err
	}
	n, err := ncr.Get(s.db, s.scope, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", n.ID)
	fmt.Fprintf(out, "Number:      %s\n", n.Number)
	fmt.Fprintf(out, "Title:       %s\n", n.Title)
	fmt.Fprintf(out, "Severity:    %s\n", n.Severity)
	fmt.Fprintf(out, "Status:      %s\n", n.Status)
	if n.WorkOrderID != nil {
		fmt.Fprintf(out, "Work order:  %d\n", *n.WorkOrderID)
	}
	if next := w.AllowedTransitions(n.Status); len(next) > 0 {
		fmt.Fprintf(out, "Next:        %s\n", strings.Join(next, ", "))
	}
	fmt.Fprintf(out, "Created:     %s\n", n.CreatedAt.Format("2006-01-02 15:04:05"))
	if n.ResolvedAt != nil {
		fmt.Fprintf(out, "Resolved:    %s by %s\n", n.ResolvedAt.Format("2006-01-02 15:04:05"), dash(n.ResolvedBy))
	}
	if n.Description != "" {
		fmt.Fprintf(out, "\nDescription:\n%s\n", n.Description)
	}
	if n.ResolutionNotes != "" {
		fmt.Fprintf(out, "\nResolution:\n%s\n", n.ResolutionNotes)
	}
	return nil
}

func newNCRStatusCmd() *cobra.Command {
	var (
		configPath string
		target     string
		payload    ncr.Payload
	)

	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Move a non-conformance report to another status",
		Long:  "Moves the report along the plant's NCR workflow, set from ncr.workflow on db init. Resolving states require --notes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runNCRStatus(cmd, configPath, id, target, payload)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&target, "to", "", "target status (required)")
	cmd.Flags().StringVar(&payload.ResolutionNotes, "notes", "", "resolution notes")
	cmd.Flags().StringVar(&payload.ResolvedBy, "by", "", "who resolved it")
	cmd.MarkFlagRequired("to")
	return cmd
}

func runNCRStatus(cmd *cobra.Command, configPath string, id uint, target string, p ncr.Payload) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	w, err := s.workflow()
	if err != nil {
		return err
	}
	n, err := ncr.UpdateStatus(s.db, s.scope, w, id, strings.ToUpper(target), p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", n.Number, n.Status)
	return nil
}
