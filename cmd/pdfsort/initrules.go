package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/pdfsort/internal/rules"
)

func (a *app) newInitRulesCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-rules",
		Short: "Write the sample rules to the rules file",
		Long: `init-rules writes the sample rules (App Store receipts, bank statements,
invoices) to the path given by --rules, in the format its extension selects.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			log, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			if _, err := os.Stat(a.cfg.RulesFile); err == nil && !force {
				log.Error("%s already exists (use --force to overwrite)", a.cfg.RulesFile)
				return errFailed
			}
			list := rules.SampleRules()
			if err := rules.Save(a.cfg.RulesFile, list); err != nil {
				return fmt.Errorf("write sample rules: %w", err)
			}
			log.Success("Wrote %d sample rules to %s", len(list), a.cfg.RulesFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing rules file")
	return cmd
}
