package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ly dev") {
		t.Errorf("expected output to contain 'ly dev', got: %s", out)
	}
	if !strings.Contains(out, "commit: none") {
		t.Errorf("expected output to contain 'commit: none', got: %s", out)
	}
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if out != "ly 1.0.0 (commit: abc123, built: 2026-01-01)\n" {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Laneyard") {
		t.Errorf("expected help output to contain 'Laneyard', got: %s", out)
	}
	for _, sub := range []string{"version", "db", "lane", "assign", "calendar", "order", "ncr", "serve", "alerts"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help output to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestSubcommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"db", "--help"}, []string{"init", "reset"}},
		{[]string{"lane", "--help"}, []string{"create", "list", "update"}},
		{[]string{"assign", "--help"}, []string{"create", "update", "delete", "list", "position"}},
		{[]string{"order", "--help"}, []string{"create", "list", "show", "release", "start", "complete", "cancel"}},
		{[]string{"ncr", "--help"}, []string{"create", "list", "show", "status"}},
		{[]string{"alerts", "--help"}, []string{"run", "preview"}},
		{[]string{"assign", "create", "--help"}, []string{"--lane", "--order", "--start", "--end", "--qty"}},
		{[]string{"order", "complete", "--help"}, []string{"--actual-quantity"}},
		{[]string{"ncr", "status", "--help"}, []string{"--to", "--notes", "--by"}},
		{[]string{"calendar", "--help"}, []string{"--start", "--days", "--blocks"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd := newRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("help failed: %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in help, got: %s", w, out)
				}
			}
		})
	}
}

func TestOrderStartHasNoQuantityFlag(t *testing.T) {
	cmd := newOrderActionCmd("start")
	if cmd.Flags().Lookup("actual-quantity") != nil {
		t.Error("start should not accept --actual-quantity")
	}
}

func TestExecuteSuccess(t *testing.T) {
	code := execute(newRootCmd())
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestExecuteError(t *testing.T) {
	cmd := &cobra.Command{
		Use:           "failing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("intentional error")
		},
	}
	code := execute(cmd)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDash(t *testing.T) {
	if got := dash(""); got != "-" {
		t.Errorf("dash(\"\") = %q", got)
	}
	if got := dash("x"); got != "x" {
		t.Errorf("dash(\"x\") = %q", got)
	}
}

func TestStylesPlainOutsideTerminal(t *testing.T) {
	st := newStyles(new(bytes.Buffer))
	if st.enabled {
		t.Fatal("styles should be disabled for a buffer")
	}
	if got := st.level("overbooked", "120%"); got != "120%" {
		t.Errorf("level() = %q, want plain text", got)
	}
}
