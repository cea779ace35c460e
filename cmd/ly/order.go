package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/workorder"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Work order commands",
	}

	cmd.AddCommand(newOrderCreateCmd())
	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderShowCmd())
	for _, a := range workorder.Actions {
		cmd.AddCommand(newOrderActionCmd(a))
	}
	return cmd
}

func newOrderCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       workorder.CreateOpts
		qty        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a PLANNED work order",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(qty)
			if err != nil {
				return fmt.Errorf("invalid --qty %q", qty)
			}
			opts.PlannedQuantity = d
			return runOrderCreate(cmd, configPath, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&opts.OrderNumber, "number", "", "order number (required)")
	cmd.Flags().StringVar(&opts.ProductCode, "product", "", "product code")
	cmd.Flags().StringVar(&qty, "qty", "", "planned quantity (required)")
	cmd.Flags().IntVar(&opts.Priority, "priority", 0, "priority")
	cmd.Flags().StringVar(&opts.PlannedStart, "start", "", "planned start, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.PlannedEnd, "end", "", "planned end, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes")
	cmd.MarkFlagRequired("number")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func runOrderCreate(cmd *cobra.Command, configPath string, opts workorder.CreateOpts) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	wo, err := workorder.Create(s.db, s.scope, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created work order %d: %s (%s)\n", wo.ID, wo.OrderNumber, wo.OrderStatus)
	return nil
}

func newOrderListCmd() *cobra.Command {
	var (
		configPath string
		filters    workorder.ListFilters
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(cmd, configPath, filters)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&filters.Status, "status", "", "filter by status")
	cmd.Flags().StringVar(&filters.ProductCode, "product", "", "filter by product code")
	cmd.Flags().IntVar(&filters.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filters.PageSize, "page-size", 50, "page size")
	return cmd
}

func runOrderList(cmd *cobra.Command, configPath string, filters workorder.ListFilters) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	page, err := workorder.List(s.db, s.scope, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No work orders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tPRODUCT\tQTY\tPRI\tSTATUS\tPLANNED")
	for _, wo := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s..%s\n",
			wo.ID, wo.OrderNumber, dash(wo.ProductCode), wo.PlannedQuantity, wo.Priority, wo.OrderStatus,
			dash(wo.PlannedStart), dash(wo.PlannedEnd))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d, %d of %d work order(s)\n", page.Page, len(page.Items), page.Total)
	return nil
}

func newOrderShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a work order and the actions it allows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runOrderShow(cmd, configPath, id)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runOrderShow(cmd *cobra.Command, configPath string, id uint) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	wo, err := workorder.Get(s.db, s.scope, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", wo.ID)
	fmt.Fprintf(out, "Number:      %s\n", wo.OrderNumber)
	fmt.Fprintf(out, "Product:     %s\n", dash(wo.ProductCode))
	fmt.Fprintf(out, "Status:      %s\n", wo.OrderStatus)
	fmt.Fprintf(out, "Priority:    %d\n", wo.Priority)
	fmt.Fprintf(out, "Planned:     %s (%s..%s)\n", wo.PlannedQuantity, dash(wo.PlannedStart), dash(wo.PlannedEnd))
	fmt.Fprintf(out, "Actual:      %s\n", wo.ActualQuantity)
	fmt.Fprintf(out, "Started:     %s\n", formatTime(wo.StartDateActual))
	fmt.Fprintf(out, "Finished:    %s\n", formatTime(wo.EndDateActual))
	if actions := workorder.AllowedActions(wo.OrderStatus); len(actions) > 0 {
		fmt.Fprint(out, "Actions:    ")
		for _, a := range actions {
			fmt.Fprintf(out, " %s", a)
		}
		fmt.Fprintln(out)
	}
	if wo.Notes != "" {
		fmt.Fprintf(out, "\nNotes:\n%s\n", wo.Notes)
	}
	return nil
}

func newOrderActionCmd(action workorder.Action) *cobra.Command {
	var (
		configPath string
		actual     string
	)

	cmd := &cobra.Command{
		Use:   string(action) + " <id>",
		Short: fmt.Sprintf("Move a work order to %s", action.Target()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var in workorder.TransitionInput
			if actual != "" {
				d, err := decimal.NewFromString(actual)
				if err != nil {
					return fmt.Errorf("invalid --actual-quantity %q", actual)
				}
				in.ActualQuantity = &d
			}
			return runOrderAction(cmd, configPath, id, action, in)
		},
	}

	addConfigFlag(cmd, &configPath)
	if action == workorder.ActionComplete {
		cmd.Flags().StringVar(&actual, "actual-quantity", "", "quantity actually produced")
	}
	return cmd
}

func runOrderAction(cmd *cobra.Command, configPath string, id uint, action workorder.Action, in workorder.TransitionInput) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	wo, err := workorder.ApplyTransition(s.db, s.scope, id, action, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Work order %s is now %s\n", wo.OrderNumber, wo.OrderStatus)
	return nil
}
