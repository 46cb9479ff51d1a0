package app

import (
	"fmt"

	"github.com/blackwell-systems/dirwatcher/internal/output"
	"github.com/blackwell-systems/dirwatcher/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop a running dirwatcher daemon",
		Long: `Send SIGTERM to the daemon recorded in the PID file. The daemon finishes
its current cycle, logs its uptime and removes the PID file.`,
		Example: `  dirwatcher stop
  dirwatcher stop --pid-file /tmp/dirwatcher.pid`,
		Args: cobra.NoArgs,
		RunE: runStop,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Report whether a dirwatcher daemon is running",
		Example: `  dirwatcher status
  dirwatcher status --pid-file /tmp/dirwatcher.pid`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
)

func runStop(cmd *cobra.Command, args []string) error {
	pidFile, err := getPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}

	out := cmd.OutOrStdout()

	running, err := watcher.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Fprintln(out, "Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon...")
	spinner.SetWriter(out)
	spinner.Start()
	if err := watcher.StopDaemon(pidFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	pidFile, err := getPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}

	running, err := watcher.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	var pid int
	if running {
		pid, _ = watcher.DaemonPID(pidFile)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderDaemonStatus(running, pid, pidFile))
	return nil
}
