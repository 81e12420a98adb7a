// Package processor applies the rule engine to a single PDF: it checks the
// file is safe to touch, extracts its text, derives the date, asks the
// engine for a destination and performs the no-clobber move.
//
// A file moves through Pending → SizeChecked → TextExtracted →
// RuleEvaluated and ends in exactly one [Status].
package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/backmassage/pdfsort/internal/dates"
	"github.com/backmassage/pdfsort/internal/fsutil"
	"github.com/backmassage/pdfsort/internal/naming"
	"github.com/backmassage/pdfsort/internal/pdftext"
	"github.com/backmassage/pdfsort/internal/rules"
)

// DefaultMaxSize is the largest file the processor will read.
const DefaultMaxSize = 100 << 20

// maxMoveAttempts bounds how often a move is retried under a new name when
// another process takes the chosen one first.
const maxMoveAttempts = 100

// Logger is the subset of logging.Logger the processor uses.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Processor holds everything needed to process files of one run. Process
// must not be called concurrently.
type Processor struct {
	Engine    *rules.Engine
	Extractor pdftext.Extractor
	FS        fsutil.FS
	Log       Logger
	Verbose   bool
	DryRun    bool
	MaxSize   int64 // Bytes; zero or less disables the ceiling.
	Now       func() time.Time
	Resolver  *naming.CollisionResolver
}

// Process runs one file through the state machine. sourceDir is the folder
// being organized; relative destinations resolve against it. Failures are
// reported in the Outcome, never returned.
func (p *Processor) Process(ctx context.Context, path, sourceDir string) Outcome {
	if p.Resolver == nil {
		p.Resolver = naming.NewCollisionResolver()
	}

	doc, out, ok := p.checkSize(path)
	if !ok {
		return out
	}

	if out, ok = p.extract(ctx, &doc); !ok {
		return out
	}

	doc.DateLabel, doc.Year = dates.ExtractAt(doc.Text, p.now())
	p.Log.Debug(p.Verbose, "  Date: %s", doc.DateLabel)

	fields := naming.FieldsFor(path, doc.DateLabel, doc.Year, doc.CreatedAt)
	d, matched := p.Engine.Decide(path, doc.Text, sourceDir, fields)
	if !matched {
		return Outcome{
			Status: StatusSkipped,
			Source: path,
			Reason: "no matching rule",
			Err:    ErrNoMatch,
			Size:   doc.Size,
		}
	}
	p.Log.Debug(p.Verbose, "  Rule: %s", d.Rule)

	out = Outcome{Source: path, Path: d.DestPath, Rule: d.Rule, Size: doc.Size}
	if samePath(d.DestPath, path) {
		out.Status = StatusMoved
		out.Path = path
		out.Reason = "already in place"
		return out
	}

	if p.DryRun {
		return p.plan(out, d)
	}
	return p.move(out, d)
}

// checkSize is Pending → SizeChecked. The Document is filled in as far
// as the checks got, even when the file is rejected.
func (p *Processor) checkSize(path string) (Document, Outcome, bool) {
	doc := Document{Path: path}
	skip := func(reason string, err error) (Document, Outcome, bool) {
		return doc, Outcome{
			Status: StatusSkipped,
			Source: path,
			Reason: reason,
			Err:    err,
			Size:   doc.Size,
		}, false
	}

	fi, err := p.FS.Lstat(path)
	if err != nil {
		return skip("cannot read file size", fmt.Errorf("%w: %w", ErrUnsafeFile, err))
	}
	doc.IsSymlink = fsutil.IsSymlink(fi)
	if doc.IsSymlink {
		return skip("symbolic link", fmt.Errorf("%w: %s is a symlink", ErrUnsafeFile, path))
	}
	if !fi.Mode().IsRegular() {
		return skip("not a regular file", fmt.Errorf("%w: %s is not a regular file", ErrUnsafeFile, path))
	}
	doc.Size = fi.Size()
	doc.CreatedAt = fsutil.CreationTime(fi)
	if p.MaxSize > 0 && doc.Size > p.MaxSize {
		reason := fmt.Sprintf("too large (%s > %s)",
			humanize.IBytes(uint64(doc.Size)), humanize.IBytes(uint64(p.MaxSize)))
		return skip(reason, fmt.Errorf("%w: %s", ErrUnsafeFile, reason))
	}
	return doc, Outcome{}, true
}

// extract is SizeChecked → TextExtracted.
func (p *Processor) extract(ctx context.Context, doc *Document) (Outcome, bool) {
	text, err := p.Extractor.Extract(ctx, doc.Path)
	if err != nil {
		return Outcome{
			Status: StatusSkipped,
			Source: doc.Path,
			Reason: "could not extract text",
			Err:    fmt.Errorf("%w: %w", ErrExtractionFailure, err),
			Size:   doc.Size,
		}, false
	}
	if text == "" {
		return Outcome{
			Status: StatusSkipped,
			Source: doc.Path,
			Reason: "no text found",
			Err:    fmt.Errorf("%w: empty text", ErrExtractionFailure),
			Size:   doc.Size,
		}, false
	}
	doc.Text = text
	return Outcome{}, true
}

// plan computes the destination a real run would pick without touching
// the disk.
func (p *Processor) plan(out Outcome, d rules.Decision) Outcome {
	dest, err := p.Resolver.Resolve(out.Source, d.DestPath, p.existsExcept(out.Source, nil))
	if err != nil {
		return p.fail(out, "check destination", err)
	}
	out.Path = dest
	if samePath(dest, out.Source) {
		out.Status = StatusMoved
		out.Reason = "already in place"
		return out
	}
	out.Status = StatusWouldMove
	return out
}

// move performs the real move. Disk state alone decides once the move is
// over, so the claim is dropped on every exit.
func (p *Processor) move(out Outcome, d rules.Decision) Outcome {
	defer p.Resolver.Release(out.Source)

	if d.Relocate {
		if err := p.FS.MkdirAll(d.DestDir); err != nil {
			return p.fail(out, "create folder", err)
		}
	}

	lost := make(map[string]bool)
	exists := p.existsExcept(out.Source, lost)
	for attempt := 0; attempt < maxMoveAttempts; attempt++ {
		dest, err := p.Resolver.Resolve(out.Source, d.DestPath, exists)
		if err != nil {
			return p.fail(out, "check destination", err)
		}
		out.Path = dest
		if samePath(dest, out.Source) {
			out.Status = StatusMoved
			out.Reason = "already in place"
			return out
		}

		err = p.FS.Move(out.Source, dest)
		if errors.Is(err, fsutil.ErrDestinationExists) {
			p.Log.Debug(p.Verbose, "  Taken meanwhile: %s", filepath.Base(dest))
			lost[dest] = true
			continue
		}
		if err != nil {
			return p.fail(out, "move", err)
		}
		out.Status = StatusMoved
		return out
	}
	return p.fail(out, "move", fmt.Errorf("no free name after %d attempts", maxMoveAttempts))
}

// existsExcept treats the source itself as free, so a file whose rendered
// name resolves back to its own path stays put. Paths in lost count as
// taken.
func (p *Processor) existsExcept(source string, lost map[string]bool) naming.ExistsFunc {
	return func(candidate string) (bool, error) {
		if lost[candidate] {
			return true, nil
		}
		if samePath(candidate, source) {
			return false, nil
		}
		return p.FS.Exists(candidate)
	}
}

func (p *Processor) fail(out Outcome, op string, err error) Outcome {
	p.Resolver.Release(out.Source)
	out.Status = StatusFailed
	out.Err, out.Reason = classify(op, err)
	return out
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
