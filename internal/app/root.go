package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/dirwatcher/internal/config"
	"github.com/blackwell-systems/dirwatcher/internal/logger"
	"github.com/blackwell-systems/dirwatcher/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	dbPath     string
	pidFile    string
	configPath string
}

// watchOptions holds the flags of the root (watch) command.
type watchOptions struct {
	interval    float64
	extension   string
	logLevel    string
	notify      bool
	daemon      bool
	daemonChild bool
	logFile     string
}

// daemonChildFlag is the name StartDaemon passes to the detached child.
var daemonChildFlag = strings.TrimPrefix(watcher.DaemonChildFlag, "--")

var (
	globals   globalOptions
	watchOpts watchOptions

	// RootCmd is the root command for dirwatcher. Invoked with a directory
	// and a magic text it runs the poller in the foreground.
	RootCmd = &cobra.Command{
		Use:   "dirwatcher [flags] <directory> <magic_text>",
		Short: "Watch a directory for text files containing a magic string",
		Long: `dirwatcher polls a directory, tracks every file ending in the configured
extension and logs each new line that contains the magic text.

Files are rescanned from the top on every cycle, but a line is only reported
once: dirwatcher remembers how many lines of each file it has already seen.
Files that disappear are dropped from the watch list; files that appear are
scanned from their first line.

Option defaults may be set in a YAML config file. Flags given on the command
line always win over the file.

Quick Start:
  1. dirwatcher ./inbox FAILED
  2. echo "job FAILED" >> ./inbox/report.txt
  3. Press Ctrl+C to stop`,
		Example: `  # Watch ./logs for .log files mentioning ERROR every 0.5 seconds
  dirwatcher -e .log -i 0.5 ./logs ERROR

  # Keep a SQLite journal of findings and wake early on changes
  dirwatcher --db ~/.dirwatcher/findings.db --notify ./inbox FAILED

  # Run in the background
  dirwatcher --daemon ./inbox FAILED
  dirwatcher status
  dirwatcher stop`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWatch,
	}
)

func init() {
	bindGlobalFlags(RootCmd.PersistentFlags(), &globals)
	bindWatchFlags(RootCmd.Flags(), &watchOpts)

	// Register subcommands
	RootCmd.AddCommand(findingsCmd)
	RootCmd.AddCommand(stopCmd)
	RootCmd.AddCommand(statusCmd)
}

// bindGlobalFlags registers the persistent flags on fs.
func bindGlobalFlags(fs *pflag.FlagSet, g *globalOptions) {
	fs.StringVar(&g.dbPath, "db", "", "SQLite findings journal path (disabled when empty)")
	fs.StringVar(&g.pidFile, "pid-file", "", "PID file path (default: ~/.dirwatcher/dirwatcher.pid)")
	fs.StringVar(&g.configPath, "config", "", "YAML config file (default: $XDG_CONFIG_HOME/dirwatcher/config.yaml)")
}

// bindWatchFlags registers the polling flags on fs.
func bindWatchFlags(fs *pflag.FlagSet, o *watchOptions) {
	fs.Float64VarP(&o.interval, "interval", "i", config.DefaultInterval.Seconds(), "polling interval in seconds")
	fs.StringVarP(&o.extension, "extension", "e", config.DefaultExtension, "file extension to watch")
	fs.StringVar(&o.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&o.notify, "notify", false, "wake early on directory change events")
	fs.BoolVar(&o.daemon, "daemon", false, "run as background daemon")
	fs.BoolVar(&o.daemonChild, daemonChildFlag, false, "internal flag for daemon child process")
	fs.StringVar(&o.logFile, "log-file", "", "daemon log file path (default: ~/.dirwatcher/dirwatcher.log)")

	// Hide the internal daemon-child flag from help
	fs.MarkHidden(daemonChildFlag)
}

// resolveConfig builds the runtime configuration. Precedence, lowest first:
// built-in defaults, the YAML config file, flags set on the command line.
func resolveConfig(fs *pflag.FlagSet, g *globalOptions, o *watchOptions, args []string) (*config.Config, error) {
	path := g.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config file: %w", err)
		}
		path = p
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.Directory = args[0]
	cfg.MagicText = args[1]

	if fs.Changed("extension") {
		cfg.Extension = o.extension
	}
	if fs.Changed("interval") {
		d, err := config.Seconds(o.interval)
		if err != nil {
			return nil, fmt.Errorf("invalid --interval: %w", err)
		}
		cfg.Interval = d
	}
	if fs.Changed("log-level") {
		if !logger.ValidLevel(o.logLevel) {
			return nil, fmt.Errorf("invalid --log-level %q (want debug, info, warn or error)", o.logLevel)
		}
		cfg.LogLevel = logger.NormalizeLevel(o.logLevel)
	}
	if fs.Changed("db") {
		cfg.DBPath = g.dbPath
	}
	if fs.Changed("notify") {
		cfg.Notify = o.notify
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// stateDir returns ~/.dirwatcher, creating it if needed.
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".dirwatcher")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dirwatcher directory: %w", err)
	}
	return dir, nil
}

// getPIDFile returns the PID file path, using the flag value or default
func getPIDFile() (string, error) {
	if globals.pidFile != "" {
		return globals.pidFile, nil
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dirwatcher.pid"), nil
}

// getLogFile returns the daemon log file path, using the flag value or default
func getLogFile() (string, error) {
	if watchOpts.logFile != "" {
		return watchOpts.logFile, nil
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dirwatcher.log"), nil
}
