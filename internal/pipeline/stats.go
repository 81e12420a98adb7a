package pipeline

import "github.com/backmassage/pdfsort/internal/processor"

// RunStats aggregates per-file outcomes for the final summary.
type RunStats struct {
	Total      int   // PDFs attempted (one-shot: listed; watch: new files).
	Current    int   // 1-based index of the file being processed.
	Moved      int   // Moved or already in place.
	WouldMove  int   // Dry-run plans.
	Skipped    int   // Unsafe, unreadable, or unmatched.
	Failed     int   // Move attempted and failed.
	BytesMoved int64 // Source bytes of moved files.
	ScanErrors int   // Folder listings that failed.
}

// Processed counts files that ended where their rule wanted them. A dry run
// counts its plans, matching what a real run would report.
func (s *RunStats) Processed() int { return s.Moved + s.WouldMove }

// Record counts one outcome.
func (s *RunStats) Record(out processor.Outcome) {
	switch out.Status {
	case processor.StatusMoved:
		s.Moved++
		s.BytesMoved += out.Size
	case processor.StatusWouldMove:
		s.WouldMove++
	case processor.StatusSkipped:
		s.Skipped++
	case processor.StatusFailed:
		s.Failed++
	}
}
