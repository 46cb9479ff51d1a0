package watcher

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/blackwell-systems/dirwatcher/internal/logger"
)

// Shutdown is a one-way stop flag. It starts false and becomes true the
// first time Stop is called; further calls have no effect. The poller reads
// it once per cycle.
type Shutdown struct {
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}

	mu     sync.Mutex
	sigCh  chan os.Signal
	quitCh chan struct{}
}

// NewShutdown creates a controller that has not been stopped.
func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// Stop requests shutdown.
func (s *Shutdown) Stop() {
	s.stopped.Store(true)
	s.once.Do(func() { close(s.done) })
}

// Stopped reports whether shutdown has been requested.
func (s *Shutdown) Stopped() bool {
	return s.stopped.Load()
}

// Done is closed once Stop has been called. The poller uses it to cut its
// sleep short; the stop decision itself is still taken at the checkpoint.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}

// NotifySignals arranges for interrupt and termination signals to call Stop.
// The handler only logs the signal and flips the flag.
func (s *Shutdown) NotifySignals(log logger.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sigCh != nil {
		return
	}

	s.sigCh = make(chan os.Signal, 1)
	s.quitCh = make(chan struct{})
	notifySignals(s.sigCh)

	go func(sigCh chan os.Signal, quitCh chan struct{}) {
		for {
			select {
			case sig := <-sigCh:
				log.Warnf("Received %s", signalName(sig))
				s.Stop()
			case <-quitCh:
				return
			}
		}
	}(s.sigCh, s.quitCh)
}

// Close unregisters the signal handler installed by NotifySignals.
func (s *Shutdown) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sigCh == nil {
		return
	}
	signal.Stop(s.sigCh)
	close(s.quitCh)
	s.sigCh = nil
	s.quitCh = nil
}
