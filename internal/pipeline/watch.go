package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/pdfsort/internal/processor"
)

// WatchState is the set of file identities already attempted in this
// process. It is never persisted; a restart retries everything.
type WatchState struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewWatchState returns an empty state.
func NewWatchState() *WatchState {
	return &WatchState{seen: make(map[string]struct{})}
}

// Seen reports whether path was attempted before.
func (w *WatchState) Seen(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[filepath.Clean(path)]
	return ok
}

// Add marks path as attempted.
func (w *WatchState) Add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen[filepath.Clean(path)] = struct{}{}
}

// Len returns the number of remembered identities.
func (w *WatchState) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

// Watch polls dir every interval and processes PDFs it has not attempted
// before. Every attempted file is remembered whatever its outcome, as is
// the destination of every moved file. Watch returns when ctx is
// cancelled; cancellation is observed between files and between polls.
func Watch(ctx context.Context, env *Env, dir string, interval time.Duration, state *WatchState) RunStats {
	if state == nil {
		state = NewWatchState()
	}
	var stats RunStats

	var wake <-chan struct{}
	if env.Notify {
		n, err := StartNotifier(ctx, dir, env.Log, env.Verbose)
		if err != nil {
			env.Log.Warn("Filesystem notifications unavailable, polling only: %v", err)
		} else {
			defer n.Close()
			wake = n.C
		}
	}

	env.Log.Info("Watching %s every %s (Ctrl+C to stop)", dir, interval)
	proc := env.newProcessor()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		scan(ctx, env, proc, dir, state, &stats)

		select {
		case <-ctx.Done():
			env.Log.Info("Stopped watching %s", dir)
			logSummary(env, &stats)
			return stats
		case <-ticker.C:
		case <-wake:
			env.Log.Debug(env.Verbose, "Change detected, rescanning")
		}
	}
}

// scan is one watch pass over dir.
func scan(ctx context.Context, env *Env, proc *processor.Processor, dir string, state *WatchState, stats *RunStats) {
	files, err := Discover(env.FS, dir)
	if err != nil {
		env.Log.Warn("Cannot list %s: %v", dir, err)
		stats.ScanErrors++
		return
	}

	for _, path := range files {
		if ctx.Err() != nil {
			return
		}
		if state.Seen(path) {
			continue
		}
		state.Add(path)
		stats.Total++
		stats.Current = stats.Total
		env.Log.Info("[new #%d] %s", stats.Current, filepath.Base(path))

		out := proc.Process(ctx, path, dir)
		stats.Record(out)
		logOutcome(env.Log, dir, out)
		if out.Status == processor.StatusMoved && out.Path != "" {
			state.Add(out.Path)
		}
	}
}
