package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/blackwell-systems/dirwatcher/internal/config"
	"github.com/blackwell-systems/dirwatcher/internal/logger"
)

// State is the lifecycle state of a Poller.
type State int32

const (
	Running State = iota
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// CycleStats summarises one poll cycle.
type CycleStats struct {
	Added      []string
	Removed    []string
	Scanned    int
	ReadErrors int
	Findings   int
	// Err is the error that caused the cycle to be skipped, if any.
	Err error
}

// Poller lists the watched directory on a fixed interval, keeps a WatchSet in
// line with it and scans every tracked file for new occurrences of the magic
// text. A Poller is driven by a single goroutine; the WatchSet is never
// touched from anywhere else.
type Poller struct {
	cfg      config.Config
	log      logger.Logger
	shutdown *Shutdown
	files    *WatchSet
	state    atomic.Int32
	notifier *dirNotifier
	// notifyErr suppresses repeated warnings when change notifications
	// cannot be set up.
	notifyErr bool

	// OnFinding, when set, is called for every finding after it is logged.
	OnFinding func(Finding)

	// OnReconcile, when set, is called after each successful reconcile that
	// changed the watch list.
	OnReconcile func(added, removed []string)
}

// New creates a Poller for cfg. shutdown may be nil, in which case only
// context cancellation stops Run.
func New(cfg config.Config, log logger.Logger, shutdown *Shutdown) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	if shutdown == nil {
		shutdown = NewShutdown()
	}
	return &Poller{
		cfg:      cfg,
		log:      log,
		shutdown: shutdown,
		files:    NewWatchSet(),
	}, nil
}

// State returns the current lifecycle state. Safe to call from any goroutine.
func (p *Poller) State() State {
	return State(p.state.Load())
}

func (p *Poller) setState(s State) {
	p.state.Store(int32(s))
}

// Tracked returns a snapshot of the tracked files. It must not be called
// while Run is executing on another goroutine.
func (p *Poller) Tracked() []TrackedFile {
	return p.files.Files()
}

// Run polls until shutdown is requested or ctx is cancelled. The stop
// request is only observed at the top of each cycle, so a cycle that has
// started always finishes its scans. Per-cycle failures are logged and never
// end the loop; Run always returns nil.
func (p *Poller) Run(ctx context.Context) error {
	defer p.closeNotifier()

	for {
		if p.shutdown.Stopped() || ctx.Err() != nil {
			p.setState(Stopping)
			p.setState(Stopped)
			return nil
		}

		stats := p.RunCycle()
		if errors.Is(stats.Err, ErrDirectoryNotFound) {
			p.wait(ctx, p.cfg.MissingDirBackoff)
		}
		p.wait(ctx, p.cfg.Interval)
	}
}

// RunCycle performs a single list, reconcile and scan pass.
func (p *Poller) RunCycle() (stats CycleStats) {
	defer func() {
		if r := recover(); r != nil {
			stats.Err = &UnhandledError{Value: r}
			p.log.Errorf("%v", stats.Err)
		}
	}()

	listing, err := p.listDirectory()
	if err != nil {
		stats.Err = err
		if errors.Is(err, ErrDirectoryNotFound) {
			p.log.Errorf("%s directory not found", p.cfg.Directory)
		} else {
			p.log.Errorf("%v", err)
		}
		p.closeNotifier()
		return stats
	}
	p.ensureNotifier()

	stats.Added, stats.Removed = p.files.Reconcile(listing, p.cfg.Extension)
	for _, name := range stats.Added {
		p.log.Infof("%s added to the watchlist", name)
	}
	for _, name := range stats.Removed {
		p.log.Infof("%s removed from watchlist", name)
	}
	if p.OnReconcile != nil && (len(stats.Added) > 0 || len(stats.Removed) > 0) {
		p.OnReconcile(stats.Added, stats.Removed)
	}

	report := func(f Finding) {
		stats.Findings++
		p.log.Infof("%s found on line %d in %s", f.MagicText, f.Line, f.Path)
		if p.OnFinding != nil {
			p.OnFinding(f)
		}
	}

	for _, name := range p.files.Names() {
		offset, _ := p.files.Offset(name)
		path := filepath.Join(p.cfg.Directory, name)

		lines, err := ScanFile(path, offset, p.cfg.MagicText, report)
		if err != nil {
			stats.ReadErrors++
			p.log.Errorf("%v", err)
			continue
		}
		if lines < offset {
			p.log.Warnf("%s shrank from %d to %d lines", name, offset, lines)
		}
		p.files.SetOffset(name, lines)
		stats.Scanned++
	}

	p.log.Debugf("cycle: %d tracked, %d added, %d removed, %d scanned, %d findings",
		p.files.Len(), len(stats.Added), len(stats.Removed), stats.Scanned, stats.Findings)
	return stats
}

// listDirectory returns the names of the non-directory entries in the
// watched directory.
func (p *Poller) listDirectory() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.Directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", p.cfg.Directory, ErrDirectoryNotFound)
		}
		return nil, &ListingError{Dir: p.cfg.Directory, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// wait sleeps for d, returning early on shutdown, cancellation or a
// directory change event.
func (p *Poller) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	case <-p.shutdown.Done():
	case <-p.notifier.Wake():
	}
}

func (p *Poller) ensureNotifier() {
	if !p.cfg.Notify || p.notifier != nil {
		return
	}
	n, err := newDirNotifier(p.cfg.Directory, p.log)
	if err != nil {
		if !p.notifyErr {
			p.log.Warnf("change notifications unavailable, polling only: %v", err)
			p.notifyErr = true
		}
		return
	}
	p.notifier = n
	p.notifyErr = false
}

func (p *Poller) closeNotifier() {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Close(); err != nil {
		p.log.Debugf("fsnotify close: %v", err)
	}
	p.notifier = nil
}
