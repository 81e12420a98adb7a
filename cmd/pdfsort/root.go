package main

import (
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmassage/pdfsort/internal/check"
	"github.com/backmassage/pdfsort/internal/config"
	"github.com/backmassage/pdfsort/internal/display"
	"github.com/backmassage/pdfsort/internal/fsutil"
	"github.com/backmassage/pdfsort/internal/logging"
	"github.com/backmassage/pdfsort/internal/pdftext"
	"github.com/backmassage/pdfsort/internal/pipeline"
	"github.com/backmassage/pdfsort/internal/rules"
	"github.com/backmassage/pdfsort/internal/term"
)

// app carries the configuration shared by all commands.
type app struct {
	cfg       config.Config
	overrides *config.Overrides
	stdin     *os.File
	stdout    io.Writer
}

func newApp() *app {
	return &app{cfg: config.DefaultConfig(), stdin: os.Stdin, stdout: os.Stdout}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pdfsort [folder]",
		Short: "Rename and file PDFs by their content",
		Long: `pdfsort reads the text of every PDF in a folder, finds the first rule in the
rules file whose conditions match, and renames and moves the file as the rule
says. Dates in the text fill the {date} and {year} placeholders.

Without a folder argument pdfsort asks for one when run in a terminal.`,
		Example: `  pdfsort ~/Downloads --dry-run
  pdfsort -f ~/Scans --watch --interval 30 --notify
  pdfsort --rules rules.yaml ~/Inbox`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runSort,
	}

	a.overrides = config.BindDisplayFlags(root.PersistentFlags(), &a.cfg)
	config.BindSourceFlags(root.PersistentFlags(), &a.cfg)
	config.BindRunFlags(root.Flags(), &a.cfg)

	root.AddCommand(
		a.newCheckCmd(),
		a.newOrganizeCmd(),
		a.newInitRulesCmd(),
		newVersionCmd(),
	)
	return root
}

// setup applies overrides, validates, and opens the logger. The caller
// closes the logger.
func (a *app) setup() (*logging.Logger, error) {
	a.overrides.Apply(&a.cfg)
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return logging.NewLogger(&a.cfg)
}

func (a *app) runSort(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		a.cfg.Folder = args[0]
	}

	// Phase 1: bootstrap. Errors go straight to stderr until the logger exists.
	log, err := a.setup()
	if err != nil {
		return err
	}
	defer log.Close()

	// Phase 2: logger available.
	display.PrintBanner(a.stdout, version)

	if a.cfg.Folder == "" {
		if !term.IsTerminal(a.stdin) {
			log.Error("No folder given (pass it as an argument or with --folder)")
			return errFailed
		}
		folder, dryRun, err := promptRun(a.stdin, a.stdout, a.cfg.DryRun)
		if err != nil {
			return err
		}
		a.cfg.Folder, a.cfg.DryRun = folder, dryRun
	}
	if err := a.cfg.ResolveFolder(); err != nil {
		log.Error("%v", err)
		return errFailed
	}
	if err := check.CheckDeps(&a.cfg); err != nil {
		log.Error("%v", err)
		if errors.Is(err, pdftext.ErrToolNotFound) {
			log.Info("%s", pdftext.InstallInstructions())
		}
		return errFailed
	}

	list, created, err := rules.LoadOrCreate(a.cfg.RulesFile)
	if err != nil {
		log.Error("%v", err)
		return errFailed
	}
	if created {
		log.Warn("Rules file %s not found; created it with %d sample rules", a.cfg.RulesFile, len(list))
	}

	extractor, err := pdftext.New(a.cfg.Extractor)
	if err != nil {
		log.Error("%v", err)
		return errFailed
	}

	engine := rules.NewEngine(list)
	runID := uuid.NewString()
	log.Info("=== pdfsort v%s (%s) run %s ===", version, commit, runID)
	log.Info("Folder:    %s", a.cfg.Folder)
	log.Info("Rules:     %s (%d)", a.cfg.RulesFile, engine.Len())
	log.Info("Extractor: %s", extractor.Name())
	if a.cfg.DryRun {
		log.Warn("DRY RUN: no folders will be created and no files moved")
	}

	// Phase 3: signals cancel the context between files.
	ctx, cancel := withSignals(cmd.Context(), log)
	defer cancel()

	env := &pipeline.Env{
		Engine:    engine,
		Extractor: extractor,
		FS:        fsutil.OS{},
		Log:       log,
		Verbose:   a.cfg.Verbose,
		DryRun:    a.cfg.DryRun,
		Notify:    a.cfg.Notify,
		MaxSize:   a.cfg.MaxSizeBytes(),
	}

	// Phase 4: run.
	if a.cfg.Watch {
		pipeline.Watch(ctx, env, a.cfg.Folder, a.cfg.Interval(), pipeline.NewWatchState())
		return nil
	}
	stats := pipeline.RunOnce(ctx, env, a.cfg.Folder)
	if stats.Failed > 0 || stats.ScanErrors > 0 {
		return errFailed
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("pdfsort version %s (%s)\n", version, commit)
		},
	}
}
