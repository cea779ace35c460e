package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const defaultConfigPath = "laneyard.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ly",
		Short: "Laneyard lane capacity scheduler",
		Long:  "Laneyard schedules work orders onto production lanes, tracks capacity and drives work order and NCR lifecycles.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newLaneCmd())
	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newCalendarCmd())
	cmd.AddCommand(newOrderCmd())
	cmd.AddCommand(newNCRCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAlertsCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ly %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
