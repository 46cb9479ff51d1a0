//go:build !windows

package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDaemonCommands(t *testing.T) {
	for _, cmd := range []struct {
		name string
		use  string
		ok   bool
	}{
		{"stop", stopCmd.Use, stopCmd.RunE != nil && stopCmd.Short != ""},
		{"status", statusCmd.Use, statusCmd.RunE != nil && statusCmd.Short != ""},
	} {
		if cmd.use != cmd.name {
			t.Errorf("expected Use to be '%s', got '%s'", cmd.name, cmd.use)
		}
		if !cmd.ok {
			t.Errorf("expected '%s' to have Short and RunE set", cmd.name)
		}
	}
}

func runDaemonCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandState(t)
	t.Setenv("NO_COLOR", "1")
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestStatus_NotRunning(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "dirwatcher.pid")

	out, err := runDaemonCmd(t, "status", "--pid-file", pidFile)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "not running") || !strings.Contains(out, pidFile) {
		t.Errorf("unexpected status output: %q", out)
	}
}

func TestStatus_Running(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "dirwatcher.pid")
	// The test process itself stands in for the daemon.
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runDaemonCmd(t, "status", "--pid-file", pidFile)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	want := fmt.Sprintf("running (PID %d", os.Getpid())
	if !strings.Contains(out, want) {
		t.Errorf("status output = %q, want %q", out, want)
	}
}

func TestStop_NotRunning(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "dirwatcher.pid")

	out, err := runDaemonCmd(t, "stop", "--pid-file", pidFile)
	if err != nil {
		t.Fatalf("stop error: %v", err)
	}
	if !strings.Contains(out, "Daemon is not running") {
		t.Errorf("unexpected stop output: %q", out)
	}
}

func TestStop_StalePIDFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "dirwatcher.pid")
	if err := os.WriteFile(pidFile, []byte("999999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runDaemonCmd(t, "stop", "--pid-file", pidFile)
	if err != nil {
		t.Fatalf("stop error: %v", err)
	}
	if !strings.Contains(out, "Daemon is not running") {
		t.Errorf("unexpected stop output: %q", out)
	}
	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Error("stale PID file should be removed")
	}
}
