package main

import (
	"fmt"

	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/pkg/fiscalyear"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load both ledgers and report integrity problems",
		Long: `Load the configuration and both ledgers exactly as serve would, then
check that each ledger's department totals add up to its grand total.

Reconciliation differences are reported as warnings; load failures exit
with an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, b, err := opts.loadBudget(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			warnings := b.Reconcile()
			for _, warning := range warnings {
				logger.Warn("Reconciliation warning: "+warning,
					zap.String("op", "main.validate"),
				)
			}

			out := cmd.OutOrStdout()
			for _, kind := range budget.Kinds {
				l := b.Ledger(kind)
				if _, err := fmt.Fprintf(out, "%s: %d rows from %s\n", kind.Label(), l.Len(), l.Path); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "Years: %s\nReconciliation warnings: %d\n", fiscalyear.Span(b.Years()), len(warnings))
			return err
		},
	}
}
