//go:build !linux && !darwin

package fsutil

import (
	"io/fs"
	"time"
)

// CreationTime falls back to the modification time.
func CreationTime(fi fs.FileInfo) time.Time {
	return fi.ModTime()
}
