package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/dirwatcher/internal/config"
	"github.com/blackwell-systems/dirwatcher/internal/logger"
	"github.com/blackwell-systems/dirwatcher/internal/output"
	"github.com/blackwell-systems/dirwatcher/internal/store"
	"github.com/blackwell-systems/dirwatcher/internal/watcher"
	"github.com/spf13/cobra"
)

const loggerName = "dirwatcher"

var bannerRule = strings.Repeat("-", 29)

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd.Flags(), &globals, &watchOpts, args)
	if err != nil {
		return err
	}

	if watchOpts.daemon && !watchOpts.daemonChild {
		return startWatchDaemon(cmd, cfg)
	}
	return runPoller(cmd, cfg)
}

// runPoller runs the poll loop in this process until SIGINT/SIGTERM or the
// command context ends.
func runPoller(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), loggerName, cfg.LogLevel)

	sd := watcher.NewShutdown()
	sd.NotifySignals(log)
	defer sd.Close()

	p, err := watcher.New(*cfg, log, sd)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if cfg.DBPath != "" {
		st, err := openJournal(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		p.AttachJournal(st)
	}

	start := time.Now()
	log.Infof("\n%s\n   Running %s\n   PID is %d\n   Started on %s\n%s",
		bannerRule, loggerName, os.Getpid(), start.Format("2006-01-02 15:04:05"), bannerRule)
	log.Infof("Watching directory: %s, File Extension: %s, Polling Interval: %s, Magic Text: %s",
		cfg.Directory, cfg.Extension, cfg.Interval, cfg.MagicText)

	if watchOpts.daemonChild {
		pidFile, perr := getPIDFile()
		if perr != nil {
			return perr
		}
		err = p.RunDaemon(cmd.Context(), pidFile)
	} else {
		err = p.Run(cmd.Context())
	}

	log.Infof("\n%s\n   Stopped %s\n   Uptime was %s\n%s",
		bannerRule, loggerName, output.FormatUptime(time.Since(start)), bannerRule)
	return err
}

// openJournal opens the findings database at path and makes sure its
// schema exists.
func openJournal(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

// daemonArgs spells out the resolved configuration for the detached child so
// it does not depend on the parent's working directory.
func daemonArgs(cfg *config.Config, pidFile string) ([]string, error) {
	dir, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	args := []string{
		"--interval", strconv.FormatFloat(cfg.Interval.Seconds(), 'f', -1, 64),
		"--extension=" + cfg.Extension,
		"--log-level", logger.NormalizeLevel(cfg.LogLevel),
		"--pid-file", pidFile,
	}
	if globals.configPath != "" {
		p, err := filepath.Abs(globals.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		args = append(args, "--config", p)
	}
	if cfg.DBPath != "" {
		p, err := filepath.Abs(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		args = append(args, "--db", p)
	}
	if cfg.Notify {
		args = append(args, "--notify")
	}

	return append(args, "--", dir, cfg.MagicText), nil
}

func startWatchDaemon(cmd *cobra.Command, cfg *config.Config) error {
	pidFile, err := getPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}
	logFile, err := getLogFile()
	if err != nil {
		return fmt.Errorf("failed to get log file path: %w", err)
	}

	childArgs, err := daemonArgs(cfg, pidFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	spinner := output.NewSpinner("Starting daemon...")
	spinner.SetWriter(out)
	spinner.Start()

	pid, err := watcher.StartDaemon(pidFile, logFile, childArgs)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon started")

	fmt.Fprintf(out, "\nWatching %s for %q (PID %d)\n", cfg.Directory, cfg.MagicText, pid)
	fmt.Fprintf(out, "  PID file: %s\n", pidFile)
	fmt.Fprintf(out, "  Log file: %s\n", logFile)
	fmt.Fprintf(out, "\nTo stop: dirwatcher stop\n")

	return nil
}
