package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/api"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		accessLog  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling HTTP API",
		Long:  "Serves lanes, assignments, the capacity calendar, work orders and NCRs as JSON for the configured plant.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, accessLog)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "log every request")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, accessLog bool) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	w, err := s.workflow()
	if err != nil {
		return err
	}
	if port == 0 {
		port = s.cfg.HTTP.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return api.Start(ctx, api.StartOpts{
		DB:           s.db,
		Port:         port,
		Out:          cmd.OutOrStdout(),
		Scope:        s.scope,
		Ledger:       s.ledger(),
		Workflow:     w,
		CalendarDays: s.cfg.Calendar.Days,
		AccessLog:    accessLog,
	})
}
