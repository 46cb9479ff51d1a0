//go:build windows

package watcher

import (
	"os"
	"os/signal"
)

// notifySignals registers only interrupt on Windows.
func notifySignals(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt)
}

func signalName(sig os.Signal) string {
	if sig == os.Interrupt {
		return "SIGINT"
	}
	return sig.String()
}
