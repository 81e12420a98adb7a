// Package fsutil is the filesystem boundary of the organizer: listing,
// existence checks, directory creation and no-clobber moves.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ErrDestinationExists is returned by Move when something already occupies
// the destination. Callers pick another name and retry.
var ErrDestinationExists = errors.New("destination already exists")

// FS is the set of filesystem operations the processor and runner need.
type FS interface {
	Lstat(path string) (fs.FileInfo, error)
	Stat(path string) (fs.FileInfo, error)
	ReadDir(dir string) ([]fs.DirEntry, error)
	MkdirAll(dir string) error
	Exists(path string) (bool, error)
	// Move renames src to dst and never replaces an existing dst.
	Move(src, dst string) error
}

// OS is FS backed by the host filesystem.
type OS struct{}

var _ FS = OS{}

func (OS) Lstat(path string) (fs.FileInfo, error)    { return os.Lstat(path) }
func (OS) Stat(path string) (fs.FileInfo, error)     { return os.Stat(path) }
func (OS) ReadDir(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }
func (OS) MkdirAll(dir string) error                 { return os.MkdirAll(dir, 0o755) }

// Exists reports whether anything, including a dangling symlink, is at path.
func (OS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Move renames src to dst without overwriting. It hard-links dst to src and
// unlinks src, which fails atomically when dst exists. Filesystems without
// hard links fall back to a checked rename; moves across devices copy the
// bytes into an exclusively created dst and remove src afterwards.
func (o OS) Move(src, dst string) error {
	err := os.Link(src, dst)
	switch {
	case err == nil:
		if err := os.Remove(src); err != nil {
			_ = os.Remove(dst)
			return fmt.Errorf("remove source after link: %w", err)
		}
		return nil
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	case errors.Is(err, syscall.EXDEV):
		return copyThenRemove(src, dst)
	case linkUnsupported(err):
		return o.renameIfFree(src, dst)
	default:
		return err
	}
}

func (o OS) renameIfFree(src, dst string) error {
	taken, err := o.Exists(dst)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return copyThenRemove(src, dst)
		}
		return err
	}
	return nil
}

func linkUnsupported(err error) bool {
	return errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.ENOTSUP) ||
		errors.Is(err, syscall.EOPNOTSUPP) ||
		errors.Is(err, syscall.EMLINK)
}

// copyThenRemove moves src to dst across filesystems. dst is created with
// O_EXCL so an existing file is never truncated; a partial dst is removed
// on failure.
func copyThenRemove(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	_ = os.Chtimes(dst, fi.ModTime(), fi.ModTime())

	if err = os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// IsSymlink reports whether fi describes a symbolic link.
func IsSymlink(fi fs.FileInfo) bool {
	return fi.Mode()&fs.ModeSymlink != 0
}
