package main

import (
	"bytes"
	"os"
	"path/filepath"
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
	if !strings.Contains(out, "lp dev") {
		t.Errorf("expected output to contain 'lp dev', got: %s", out)
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
	if out := buf.String(); !strings.Contains(out, "lp 1.0.0 (commit: abc123, built: 2026-01-01)") {
		t.Errorf("unexpected version output: %s", out)
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
	for _, sub := range []string{"version", "db", "serve", "load", "idea", "task", "sync"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help output to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestExecute_ReturnsExitCode(t *testing.T) {
	ok := &cobra.Command{Use: "ok", RunE: func(*cobra.Command, []string) error { return nil }}
	if code := execute(ok); code != 0 {
		t.Errorf("execute(ok) = %d, want 0", code)
	}
	fail := &cobra.Command{Use: "fail", SilenceErrors: true, SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error { return os.ErrInvalid }}
	if code := execute(fail); code != 1 {
		t.Errorf("execute(fail) = %d, want 1", code)
	}
}

func TestCommands_MissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	for _, args := range [][]string{
		{"db", "init", "-c", missing},
		{"load", "-c", missing},
		{"sync", "-c", missing},
		{"idea", "list", "-c", missing},
		{"task", "list", "-c", missing},
	} {
		_, err := runLP(t, args...)
		if err == nil || !strings.Contains(err.Error(), "load config") {
			t.Errorf("%v: err = %v, want load config error", args, err)
		}
	}
}

// writeConfig writes a sqlite-backed config into a temp dir and returns its path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "launchpad.yaml")
	body := "user: alice\ndatabase:\n  driver: sqlite\n  path: " + filepath.Join(dir, "data", "lp.db") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runLP executes the root command with args and returns combined output.
func runLP(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// mustRunLP is runLP that fails the test on error.
func mustRunLP(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runLP(t, args...)
	if err != nil {
		t.Fatalf("lp %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// createdID extracts the trailing id from "Created ... <id>" output.
func createdID(t *testing.T, out string) string {
	t.Helper()
	line := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "Created" {
		t.Fatalf("unexpected create output: %q", out)
	}
	return fields[len(fields)-1]
}
