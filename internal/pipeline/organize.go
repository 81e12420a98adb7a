package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/backmassage/pdfsort/internal/fsutil"
)

// OtherCategory receives files whose extension is in no category.
const OtherCategory = "Other"

// Category is a destination folder and the extensions that go there.
type Category struct {
	Name       string
	Extensions []string // Lower-case, with leading dot.
}

// DefaultCategories is the ordered category table used by Organize. The
// first category listing an extension wins.
var DefaultCategories = []Category{
	{"Images", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg"}},
	{"Documents", []string{".pdf", ".doc", ".docx", ".txt", ".xlsx", ".pptx"}},
	{"Videos", []string{".mp4", ".avi", ".mov", ".mkv"}},
	{"Music", []string{".mp3", ".wav", ".flac", ".m4a"}},
	{"Archives", []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
	{"Code", []string{".py", ".js", ".html", ".css", ".java", ".cpp"}},
}

// CategoryFor returns the category folder for name.
func CategoryFor(categories []Category, name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, c := range categories {
		for _, e := range c.Extensions {
			if ext == e {
				return c.Name
			}
		}
	}
	return OtherCategory
}

// OrganizeStats counts the results of Organize.
type OrganizeStats struct {
	Total   int
	Moved   int
	Skipped int // Destination already existed.
	Failed  int
}

// Organize sorts the files directly inside dir into category subfolders.
// Directories, symlinks and hidden files are left alone, and an existing
// destination is never overwritten. With dryRun nothing is created or moved.
func Organize(ctx context.Context, fsys fsutil.FS, log Logger, dir string, categories []Category, dryRun bool) OrganizeStats {
	var stats OrganizeStats

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		log.Error("Cannot list %s: %v", dir, err)
		return stats
	}

	created := make(map[string]bool)
	for _, e := range entries {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || !e.Type().IsRegular() {
			continue
		}
		stats.Total++

		category := CategoryFor(categories, name)
		dest := filepath.Join(dir, category, name)

		if dryRun {
			if taken, _ := fsys.Exists(dest); taken {
				log.Warn("Skipped %q (already exists in %s)", name, category)
				stats.Skipped++
				continue
			}
			log.Success("[DRY] Would move %q -> %s/", name, category)
			stats.Moved++
			continue
		}

		if !created[category] {
			if err := fsys.MkdirAll(filepath.Join(dir, category)); err != nil {
				log.Error("Cannot create %s: %v", category, err)
				stats.Failed++
				continue
			}
			created[category] = true
		}

		err := fsys.Move(filepath.Join(dir, name), dest)
		switch {
		case errors.Is(err, fsutil.ErrDestinationExists):
			log.Warn("Skipped %q (already exists in %s)", name, category)
			stats.Skipped++
		case err != nil:
			log.Error("Cannot move %q: %v", name, err)
			stats.Failed++
		default:
			log.Success("Moved %q -> %s/", name, category)
			stats.Moved++
		}
	}

	log.Info("Organized %d of %d files", stats.Moved, stats.Total)
	return stats
}
