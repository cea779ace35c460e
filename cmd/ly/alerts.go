package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/alert"
	"github.com/zulandar/laneyard/internal/alert/discord"
	"github.com/zulandar/laneyard/internal/alert/slack"
)

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Overbooking digest commands",
	}

	cmd.AddCommand(newAlertsRunCmd())
	cmd.AddCommand(newAlertsPreviewCmd())
	return cmd
}

func newAlertsRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send the overbooking digest on the configured schedule",
		Long:  "Runs in the foreground and posts the digest to Slack and/or Discord at every alerts.schedule tick.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertsRun(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runAlertsRun(cmd *cobra.Command, configPath string) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	notifiers, err := s.notifiers()
	if err != nil {
		return err
	}
	if len(notifiers) == 0 {
		return fmt.Errorf("no notifier configured (set alerts.slack or alerts.discord)")
	}
	r, err := s.runner(notifiers)
	if err != nil {
		return err
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

	out := cmd.OutOrStdout()
	for _, n := range notifiers {
		fmt.Fprintf(out, "Notifier: %s\n", n.Name())
	}
	fmt.Fprintf(out, "Next digest at %s\n", r.Next(time.Now()).Format("2006-01-02 15:04"))
	return r.Run(ctx)
}

func newAlertsPreviewCmd() *cobra.Command {
	var (
		configPath string
		send       bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the digest that would be sent now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertsPreview(cmd, configPath, send)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&send, "send", false, "also send it to the configured notifiers")
	return cmd
}

func runAlertsPreview(cmd *cobra.Command, configPath string, send bool) error {
	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	var notifiers []alert.Notifier
	if send {
		if notifiers, err = s.notifiers(); err != nil {
			return err
		}
	}
	r, err := s.runner(notifiers)
	if err != nil {
		return err
	}

	d, err := r.Preview()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if d == nil {
		fmt.Fprintln(out, "No overbooked lanes in the horizon.")
		return nil
	}
	printMessage(cmd, alert.FormatDigest(d))

	if !send {
		return nil
	}
	if _, err := r.RunOnce(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSent to %d notifier(s)\n", len(notifiers))
	return nil
}

func printMessage(cmd *cobra.Command, msg alert.Message) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, msg.Text)
	for _, e := range msg.Events {
		fmt.Fprintf(out, "\n%s\n", e.Title)
		if e.Body != "" {
			fmt.Fprintln(out, e.Body)
		}
		for _, f := range e.Fields {
			fmt.Fprintf(out, "  %s: %s\n", f.Name, f.Value)
		}
	}
}

func (s *session) notifiers() ([]alert.Notifier, error) {
	var ns []alert.Notifier
	if c := s.cfg.Alerts.Slack; c.Enabled() {
		n, err := slack.New(slack.Opts{BotToken: c.BotToken, ChannelID: c.ChannelID})
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	if c := s.cfg.Alerts.Discord; c.Enabled() {
		n, err := discord.New(discord.Opts{BotToken: c.BotToken, ChannelID: c.ChannelID})
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, nil
}

func (s *session) runner(notifiers []alert.Notifier) (*alert.Runner, error) {
	return alert.NewRunner(alert.RunnerOpts{
		DB:          s.db,
		Scope:       s.scope,
		Ledger:      s.ledger(),
		Schedule:    s.cfg.Alerts.Schedule,
		HorizonDays: s.cfg.Alerts.HorizonDays,
		Notifiers:   notifiers,
	})
}
