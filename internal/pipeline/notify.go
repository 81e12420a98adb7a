package pipeline

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Notifier turns filesystem events on PDFs in a folder into wake-ups for
// the watch loop. It never touches files or the watch state.
type Notifier struct {
	// C receives a value when a PDF was created, written, or renamed.
	// Wake-ups coalesce; at most one is pending.
	C <-chan struct{}

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// StartNotifier watches dir until ctx is done or Close is called.
func StartNotifier(ctx context.Context, dir string, log Logger, verbose bool) (*Notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	c := make(chan struct{}, 1)
	n := &Notifier{C: c, watcher: w, done: make(chan struct{})}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-n.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				log.Debug(verbose, "Event %s %s", ev.Op, ev.Name)
				select {
				case c <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Debug(verbose, "Watcher error: %v", err)
			}
		}
	}()
	return n, nil
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return isPDFName(filepath.Base(ev.Name))
}

// Close stops the watcher and waits for the event pump to exit.
func (n *Notifier) Close() error {
	select {
	case <-n.done:
	default:
		close(n.done)
	}
	err := n.watcher.Close()
	n.wg.Wait()
	return err
}
