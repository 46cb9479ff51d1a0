// Package watcher polls a directory for text files and reports new lines
// containing a magic string.
//
// Every cycle the Poller lists the directory, reconciles its WatchSet (new
// files matching the extension start at line 0, vanished files are dropped)
// and rescans each tracked file from the top, reporting only matches at or
// after the file's stored offset. Offsets live in memory only.
//
// Key features:
//   - Missing directory and listing errors are logged and retried
//   - Per-file read errors leave the offset untouched for the next cycle
//   - Graceful shutdown with SIGTERM/SIGINT, checked once per cycle
//   - Optional fsnotify wake-ups and SQLite findings journal
//   - Daemon mode support with PID file management
//
// Example usage:
//
//	cfg := config.DefaultConfig()
//	cfg.Directory = "/var/spool/reports"
//	cfg.MagicText = "FAILED"
//
//	sd := watcher.NewShutdown()
//	sd.NotifySignals(log)
//	defer sd.Close()
//
//	p, err := watcher.New(*cfg, log, sd)
//	if err != nil {
//		return err
//	}
//	return p.Run(ctx)
package watcher
