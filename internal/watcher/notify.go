package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/dirwatcher/internal/logger"
)

// dirNotifier turns filesystem events on the watched directory into
// non-blocking wake-ups for the poller's sleep. It never drives scanning on
// its own; a wake-up only starts the next cycle early.
type dirNotifier struct {
	fw   *fsnotify.Watcher
	wake chan struct{}
	done chan struct{}
}

func newDirNotifier(dir string, log logger.Logger) (*dirNotifier, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	n := &dirNotifier{
		fw:   fw,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go n.run(log)
	return n, nil
}

func (n *dirNotifier) run(log logger.Logger) {
	defer close(n.done)
	for {
		select {
		case ev, ok := <-n.fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				select {
				case n.wake <- struct{}{}:
				default:
				}
			}
		case err, ok := <-n.fw.Errors:
			if !ok {
				return
			}
			log.Debugf("fsnotify: %v", err)
		}
	}
}

// Wake returns the channel signalled on directory changes.
func (n *dirNotifier) Wake() <-chan struct{} {
	if n == nil {
		return nil
	}
	return n.wake
}

func (n *dirNotifier) Close() error {
	if n == nil {
		return nil
	}
	err := n.fw.Close()
	<-n.done
	return err
}
