// Package check provides system diagnostics (`pdfsort check`) and the
// pre-run dependency validation (CheckDeps) for the text extractor, the
// rules file, and the target folder.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/pdfsort/internal/config"
	"github.com/backmassage/pdfsort/internal/display"
	"github.com/backmassage/pdfsort/internal/fsutil"
	"github.com/backmassage/pdfsort/internal/pdftext"
	"github.com/backmassage/pdfsort/internal/pipeline"
	"github.com/backmassage/pdfsort/internal/rules"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrFolderNotWritable = errors.New("folder is not writable")
	ErrNotADirectory     = errors.New("not a directory")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// RunCheck prints the availability of each extractor, the state of the
// rules file and, when cfg.Folder is set, the folder. It returns false
// when something would stop a run.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkExtractors(cfg, log)
	ok = checkRules(cfg, log) && ok
	if cfg.Folder != "" {
		ok = checkFolder(cfg.Folder, log) && ok
	}

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("Some checks failed")
	}
	return ok
}

// checkExtractors reports pdftotext and the native parser.
func checkExtractors(cfg *config.Config, log Logger) bool {
	path, err := lookPath("pdftotext")
	if err != nil {
		if cfg.Extractor == pdftext.ModePdftotext {
			log.Error("pdftotext not found (required by --extractor pdftotext)")
		} else {
			log.Warn("pdftotext not found; the native parser will be used")
		}
		for _, line := range strings.Split(pdftext.InstallInstructions(), "\n") {
			log.Info("  %s", line)
		}
		log.Success("native: built in")
		return cfg.Extractor != pdftext.ModePdftotext
	}

	log.Success("pdftotext: %s", path)
	// pdftotext -v prints its version to stderr and may exit non-zero.
	out, _ := exec.Command(path, "-v").CombinedOutput()
	if first := firstLine(string(out)); first != "" {
		log.Debug(cfg.Verbose, "  %s", first)
	}
	log.Success("native: built in")
	return true
}

// checkRules loads the rules file without creating it.
func checkRules(cfg *config.Config, log Logger) bool {
	list, err := rules.Load(cfg.RulesFile)
	switch {
	case errors.Is(err, rules.ErrConfigurationMissing):
		log.Warn("Rules file %s not found; sample rules will be created on first run", cfg.RulesFile)
		return true
	case err != nil:
		log.Error("%v", err)
		return false
	}

	log.Success("Rules: %s (%d rules, %s)", cfg.RulesFile, len(list), rules.FormatFor(cfg.RulesFile))
	for i, r := range list {
		log.Debug(cfg.Verbose, "  %d. %s", i+1, r.Name)
		if r.Conditions.IsEmpty() {
			log.Warn("  Rule %q has no conditions and matches every PDF", r.Name)
		}
	}
	return true
}

// checkFolder verifies dir exists, is writable, and reports its PDFs.
func checkFolder(dir string, log Logger) bool {
	if err := folderWritable(dir); err != nil {
		log.Error("Folder %s: %v", dir, err)
		return false
	}
	files, err := pipeline.Discover(fsutil.OS{}, dir)
	if err != nil {
		log.Error("Cannot list %s: %v", dir, err)
		return false
	}
	log.Success("Folder: %s (%s)", dir, display.FormatCount(len(files), "PDF"))
	return true
}

// CheckDeps fails fast before a run: the chosen extractor must exist, the
// rules file must not be malformed, and the folder must be writable unless
// this is a dry run.
func CheckDeps(cfg *config.Config) error {
	if cfg.Extractor == pdftext.ModePdftotext {
		if _, err := lookPath("pdftotext"); err != nil {
			return pdftext.ErrToolNotFound
		}
	}
	if _, err := rules.Load(cfg.RulesFile); err != nil && !errors.Is(err, rules.ErrConfigurationMissing) {
		return err
	}
	if cfg.Folder != "" && !cfg.DryRun {
		if err := folderWritable(cfg.Folder); err != nil {
			return err
		}
	}
	return nil
}

// folderWritable probes dir by creating and removing a temporary file.
func folderWritable(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	f, err := os.CreateTemp(dir, ".pdfsort-check-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFolderNotWritable, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
