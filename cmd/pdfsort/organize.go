package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/pdfsort/internal/fsutil"
	"github.com/backmassage/pdfsort/internal/pipeline"
)

func (a *app) newOrganizeCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "organize <folder>",
		Short: "Sort every file in a folder into category subfolders by extension",
		Long: `organize moves each file directly inside the folder into Images, Documents,
Videos, Music, Archives, Code or Other. Existing files are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Folder = args[0]
			log, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			if err := a.cfg.ResolveFolder(); err != nil {
				log.Error("%v", err)
				return errFailed
			}
			if dryRun {
				log.Warn("DRY RUN: nothing will be moved")
			}

			ctx, cancel := withSignals(cmd.Context(), log)
			defer cancel()

			stats := pipeline.Organize(ctx, fsutil.OS{}, log, a.cfg.Folder, pipeline.DefaultCategories, dryRun)
			if stats.Failed > 0 {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview only; do not move files")
	return cmd
}
