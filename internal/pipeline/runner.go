package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/backmassage/pdfsort/internal/display"
	"github.com/backmassage/pdfsort/internal/fsutil"
	"github.com/backmassage/pdfsort/internal/naming"
	"github.com/backmassage/pdfsort/internal/pdftext"
	"github.com/backmassage/pdfsort/internal/processor"
	"github.com/backmassage/pdfsort/internal/rules"
)

// Logger is the logging surface the runner needs; *logging.Logger
// satisfies it.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Env carries the collaborators of a run. It is built once at startup and
// never mutated afterwards.
type Env struct {
	Engine    *rules.Engine
	Extractor pdftext.Extractor
	FS        fsutil.FS
	Log       Logger
	Verbose   bool
	DryRun    bool
	Notify    bool  // Watch only: wake early on filesystem events.
	MaxSize   int64 // Bytes; zero or less disables the ceiling.
	Now       func() time.Time
}

// newProcessor returns a processor with a fresh collision resolver, so
// destinations claimed in this run are honored across its files.
func (env *Env) newProcessor() *processor.Processor {
	return &processor.Processor{
		Engine:    env.Engine,
		Extractor: env.Extractor,
		FS:        env.FS,
		Log:       env.Log,
		Verbose:   env.Verbose,
		DryRun:    env.DryRun,
		MaxSize:   env.MaxSize,
		Now:       env.Now,
		Resolver:  naming.NewCollisionResolver(),
	}
}

// RunOnce processes every PDF in dir once, sequentially, and returns the
// aggregate stats. Cancellation is observed between files.
func RunOnce(ctx context.Context, env *Env, dir string) RunStats {
	var stats RunStats

	files, err := Discover(env.FS, dir)
	if err != nil {
		env.Log.Error("Cannot list %s: %v", dir, err)
		stats.ScanErrors++
		return stats
	}
	if len(files) == 0 {
		env.Log.Info("No PDF files found in %s", dir)
		return stats
	}

	stats.Total = len(files)
	env.Log.Info("Found %s", display.FormatCount(len(files), "PDF"))

	proc := env.newProcessor()
	for i, path := range files {
		if ctx.Err() != nil {
			env.Log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		env.Log.Info("[%d/%d] %s", stats.Current, stats.Total, filepath.Base(path))

		out := proc.Process(ctx, path, dir)
		stats.Record(out)
		logOutcome(env.Log, dir, out)
	}

	logSummary(env, &stats)
	return stats
}

// logOutcome prints the result line of one file.
func logOutcome(log Logger, dir string, out processor.Outcome) {
	switch out.Status {
	case processor.StatusMoved:
		if out.Reason != "" {
			log.Info("  %s: %s", out.Reason, displayPath(dir, out.Path))
			return
		}
		log.Success("  Moved to %s (rule %q)", displayPath(dir, out.Path), out.Rule)
	case processor.StatusWouldMove:
		log.Success("  [DRY] Would move to %s (rule %q)", displayPath(dir, out.Path), out.Rule)
	case processor.StatusSkipped:
		log.Warn("  Skipped: %s", out.Reason)
	case processor.StatusFailed:
		log.Error("  Failed: %s", out.Reason)
		if out.Err != nil {
			log.Error("  %v", out.Err)
		}
	}
}

// displayPath shortens paths inside dir to a relative form.
func displayPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil && filepath.IsLocal(rel) {
		return rel
	}
	return path
}

func logSummary(env *Env, stats *RunStats) {
	env.Log.Info("Processed %d out of %s", stats.Processed(), display.FormatCount(stats.Total, "PDF"))
	if stats.Moved > 0 {
		env.Log.Info("  Moved:   %d (%s)", stats.Moved, display.FormatBytes(stats.BytesMoved))
	}
	if stats.WouldMove > 0 {
		env.Log.Info("  Planned: %d", stats.WouldMove)
	}
	if stats.Skipped > 0 {
		env.Log.Info("  Skipped: %d", stats.Skipped)
	}
	if stats.Failed > 0 {
		env.Log.Error("  Failed:  %d", stats.Failed)
	}
	if env.DryRun && stats.WouldMove > 0 {
		env.Log.Warn("This was a dry run. Run again without --dry-run to move files.")
	}
}
