package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Failure taxonomy. Every non-successful Outcome wraps exactly one of these.
var (
	ErrExtractionFailure = errors.New("text extraction failed")
	ErrUnsafeFile        = errors.New("unsafe file")
	ErrNoMatch           = errors.New("no rule matched")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrFilesystem        = errors.New("filesystem error")
	ErrUnexpected        = errors.New("unexpected error")
)

// osReasons maps errnos to the reason shown for a failed move. Checked in
// order; the first errno found in the chain wins.
var osReasons = []struct {
	errno  syscall.Errno
	reason string
}{
	{syscall.EXDEV, "cannot move across devices"},
	{syscall.ENOSPC, "no space left on device"},
	{syscall.EROFS, "read-only filesystem"},
	{syscall.EBUSY, "file is busy"},
	{syscall.ETXTBSY, "file is busy"},
	{syscall.ENAMETOOLONG, "destination name too long"},
	{syscall.ENOENT, "file disappeared"},
}

// classify wraps err in the matching sentinel and returns a reason for it.
// op names the step that failed, e.g. "create folder" or "move".
func classify(op string, err error) (error, string) {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, op, err), "permission denied (" + op + ")"
	}
	for _, r := range osReasons {
		if errors.Is(err, r.errno) {
			return fmt.Errorf("%w: %s: %w", ErrFilesystem, op, err), r.reason
		}
	}
	var errno syscall.Errno
	var pathErr *fs.PathError
	if errors.As(err, &errno) || errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %s: %w", ErrFilesystem, op, err), op + " failed: " + err.Error()
	}
	return fmt.Errorf("%w: %s: %w", ErrUnexpected, op, err), "unexpected error: " + err.Error()
}
