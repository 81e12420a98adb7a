package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/pdfsort/internal/check"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [folder]",
		Short: "Check extractors, the rules file and optionally a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Folder = args[0]
			}
			log, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			if a.cfg.Folder != "" {
				if err := a.cfg.ResolveFolder(); err != nil {
					log.Error("%v", err)
					return errFailed
				}
			}
			if !check.RunCheck(&a.cfg, log) {
				return errFailed
			}
			return nil
		},
	}
}
