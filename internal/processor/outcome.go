package processor

import "time"

// Status is the terminal state of one processed file.
type Status int

const (
	StatusMoved     Status = iota // Renamed and/or relocated, or already in place.
	StatusWouldMove               // Dry run: the move a real run would make.
	StatusSkipped                 // Left untouched on purpose.
	StatusFailed                  // A move was attempted and did not happen.
)

func (s Status) String() string {
	switch s {
	case StatusMoved:
		return "moved"
	case StatusWouldMove:
		return "would move"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Document is a PDF after the size check and text extraction.
type Document struct {
	Path      string
	Text      string
	Size      int64
	IsSymlink bool
	CreatedAt time.Time
	DateLabel string
	Year      int
}

// Outcome reports what happened to one file.
type Outcome struct {
	Status Status
	Source string // Input path.
	Path   string // Final or computed destination; empty when skipped early.
	Reason string // Short user-facing explanation.
	Err    error  // Wraps one of the package sentinels; nil on success.
	Rule   string // Name of the matched rule, if any.
	Size   int64  // Size of the source file in bytes.
}
