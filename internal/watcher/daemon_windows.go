//go:build windows

package watcher

import (
	"context"
	"errors"
)

// DaemonChildFlag is prepended to the child's arguments so the CLI knows it
// is already detached.
const DaemonChildFlag = "--daemon-child"

var errNoDaemon = errors.New("daemon mode is not supported on Windows")

func StartDaemon(pidFile, logFile string, args []string) (int, error) { return 0, errNoDaemon }

func (p *Poller) RunDaemon(ctx context.Context, pidFile string) error { return p.Run(ctx) }

func StopDaemon(pidFile string) error { return errNoDaemon }

func IsDaemonRunning(pidFile string) (bool, error) { return false, nil }

func DaemonPID(pidFile string) (int, error) { return 0, errNoDaemon }
