// Package output provides terminal output utilities for dirwatcher.
//
// This package includes:
//   - Table rendering for journaled findings and watch list events
//   - A spinner for daemon start and stop
//
// Tables use ASCII characters and ANSI color codes when stdout is a terminal.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/dirwatcher/internal/store"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderFindingsTable renders journaled findings in the order given.
func RenderFindingsTable(findings []*store.Finding) string {
	if len(findings) == 0 {
		return "No findings recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-20s %-16s %6s  %s\n", "Found", "Magic Text", "Line", "Path"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, f := range findings {
		sb.WriteString(fmt.Sprintf("%-20s %-16s %6d  %s\n",
			formatRelativeTime(f.FoundAt),
			truncate(f.MagicText, 16),
			f.Line,
			f.Path))
	}

	sb.WriteString(fmt.Sprintf("\n%s in %d file(s)\n",
		colorize(colorGreen, pluralize(len(findings), "finding")), countPaths(findings)))
	return sb.String()
}

// RenderWatchEventsTable renders watch list additions and removals.
func RenderWatchEventsTable(events []*store.WatchEvent) string {
	if len(events) == 0 {
		return "No watch list changes recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-20s %-8s %-24s %s\n", "When", "Event", "File", "Directory"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, e := range events {
		// Pad before colouring so the escape codes do not skew alignment.
		kind := fmt.Sprintf("%-8s", e.EventType)
		switch e.EventType {
		case store.EventAdded:
			kind = colorize(colorGreen, kind)
		case store.EventRemoved:
			kind = colorize(colorYellow, kind)
		default:
			kind = colorize(colorGray, kind)
		}
		sb.WriteString(fmt.Sprintf("%-20s %s %-24s %s\n",
			formatRelativeTime(e.Timestamp),
			kind,
			truncate(e.FileName, 24),
			e.Directory))
	}

	return sb.String()
}

// RenderDaemonStatus renders the one-line daemon status report.
func RenderDaemonStatus(running bool, pid int, pidFile string) string {
	if !running {
		return fmt.Sprintf("%s (PID file: %s)\n", colorize(colorRed, "not running"), pidFile)
	}
	return fmt.Sprintf("%s (PID %d, PID file: %s)\n", colorize(colorGreen, "running"), pid, pidFile)
}

// FormatUptime renders an uptime duration for the shutdown banner.
func FormatUptime(d time.Duration) string {
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
}

func countPaths(findings []*store.Finding) int {
	seen := make(map[string]struct{})
	for _, f := range findings {
		seen[f.Path] = struct{}{}
	}
	return len(seen)
}
