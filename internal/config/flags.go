package config

// This file binds CLI flags to a Config. Flags are grouped into run
// behavior, rule sources and display; the latter two are persistent so
// subcommands accept them. Color flags are applied after parsing so --no-color always
// wins over --color.

import (
	"github.com/spf13/pflag"

	"github.com/backmassage/pdfsort/internal/pdftext"
)

// Overrides holds flag values that are applied to a Config after Parse.
type Overrides struct {
	forceColor bool
	noColor    bool
}

// BindRunFlags registers the flags of the organizing run: -f/--folder,
// -d/--dry-run, -w/--watch, -i/--interval, --notify and --max-size.
func BindRunFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Folder, "folder", "f", cfg.Folder, "Folder to organize (same as the positional argument)")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", cfg.DryRun, "Preview only; do not create folders or move files")
	fs.BoolVarP(&cfg.Watch, "watch", "w", cfg.Watch, "Keep watching the folder for new PDFs")
	fs.IntVarP(&cfg.IntervalSeconds, "interval", "i", cfg.IntervalSeconds, "Seconds between folder scans in watch mode")
	fs.BoolVar(&cfg.Notify, "notify", cfg.Notify, "Rescan early on filesystem events (watch mode)")
	fs.IntVar(&cfg.MaxSizeMiB, "max-size", cfg.MaxSizeMiB, "Skip PDFs larger than this many MiB")
}

// BindSourceFlags registers -r/--rules and --extractor, which `check`
// shares with the run.
func BindSourceFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.RulesFile, "rules", "r", cfg.RulesFile, "Rules file (.json, .yaml or .toml)")
	fs.Var(&extractorValue{&cfg.Extractor}, "extractor", "Text extractor: auto | pdftotext | native")
}

// BindDisplayFlags registers -v/--verbose, --color, --no-color and -l/--log.
func BindDisplayFlags(fs *pflag.FlagSet, cfg *Config) *Overrides {
	o := &Overrides{}
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.BoolVar(&o.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	return o
}

// Apply copies override flags into cfg.
func (o *Overrides) Apply(cfg *Config) {
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// extractorValue implements pflag.Value for pdftext.Mode; values are
// normalized by pdftext.ParseMode.
type extractorValue struct{ p *pdftext.Mode }

func (v *extractorValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *extractorValue) Set(s string) error {
	m, err := pdftext.ParseMode(s)
	if err != nil {
		return err
	}
	*v.p = m
	return nil
}

func (v *extractorValue) Type() string { return "mode" }
