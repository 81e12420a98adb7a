//go:build linux

package fsutil

import (
	"io/fs"
	"syscall"
	"time"
)

// CreationTime returns the inode status-change time, the closest value to a
// creation time that Linux stat exposes.
func CreationTime(fi fs.FileInfo) time.Time {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime()
	}
	return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
}
