package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/pdfsort/internal/fsutil"
)

// isPDFName reports whether name is a visible file with a .pdf extension,
// ignoring case.
func isPDFName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Discover lists the PDFs directly inside dir (no recursion). Regular files
// and symlinks are returned, hidden dot-files are ignored, and paths are
// sorted lexicographically for deterministic processing order. Symlinks are
// kept so the processor can report them as skipped.
func Discover(fsys fsutil.FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !isPDFName(e.Name()) {
			continue
		}
		t := e.Type()
		if !t.IsRegular() && t&fs.ModeSymlink == 0 {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
