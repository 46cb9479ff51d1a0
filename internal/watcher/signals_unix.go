//go:build !windows

package watcher

import (
	"os"
	"os/signal"
	"syscall"
)

// notifySignals registers for interrupt and termination signals on Unix-like OSes.
func notifySignals(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}

func signalName(sig os.Signal) string {
	switch sig {
	case os.Interrupt:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return sig.String()
}
