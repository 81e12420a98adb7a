//go:build darwin

package fsutil

import (
	"io/fs"
	"syscall"
	"time"
)

// CreationTime returns the file birth time.
func CreationTime(fi fs.FileInfo) time.Time {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime()
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
