// Package config holds runtime configuration: defaults, CLI flag binding,
// and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/pdfsort/internal/pdftext"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultRulesFile is the rules file used when --rules is not given.
const DefaultRulesFile = "pdf_rules.json"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// mutated by the bound flags, then checked with [Config.Validate].
type Config struct {
	// Paths.
	Folder    string // Folder to organize (positional, --folder, or prompt).
	RulesFile string // Default: "pdf_rules.json".

	// Behavior.
	DryRun          bool
	Watch           bool
	Notify          bool // Wake the watch loop early on filesystem events.
	IntervalSeconds int  // Default: 10. Poll interval in watch mode.
	MaxSizeMiB      int  // Default: 100. Larger files are skipped.
	Extractor       pdftext.Mode // Default: "auto".

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		RulesFile:       DefaultRulesFile,
		IntervalSeconds: 10,
		MaxSizeMiB:      100,
		Extractor:       pdftext.ModeAuto,
		ColorMode:       ColorAuto,
	}
}

// Interval is the watch poll interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// MaxSizeBytes is the file size ceiling in bytes.
func (c *Config) MaxSizeBytes() int64 {
	return int64(c.MaxSizeMiB) << 20
}

// NormalizeDirArg strips trailing slashes and expands a leading "~/".
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. It does not require a
// folder; see [Config.ResolveFolder].
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if _, err := pdftext.ParseMode(string(c.Extractor)); err != nil {
		return err
	}

	if c.IntervalSeconds < 1 {
		return fmt.Errorf("interval must be at least 1 second, got %d", c.IntervalSeconds)
	}
	if c.MaxSizeMiB < 1 {
		return fmt.Errorf("max size must be at least 1 MiB, got %d", c.MaxSizeMiB)
	}
	if strings.TrimSpace(c.RulesFile) == "" {
		return errors.New("rules file path must not be empty")
	}
	if c.Notify && !c.Watch {
		return errors.New("--notify only applies with --watch")
	}
	return nil
}

// ResolveFolder normalizes Folder to an absolute path and checks that it is
// an existing directory.
func (c *Config) ResolveFolder() error {
	if c.Folder == "" {
		return errors.New("no folder given")
	}
	abs, err := filepath.Abs(NormalizeDirArg(c.Folder))
	if err != nil {
		return fmt.Errorf("resolve folder: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("folder %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}
	c.Folder = abs
	return nil
}
