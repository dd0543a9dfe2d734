package app

import (
	"github.com/blackwell-systems/marketbuild/internal/build"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check items and collections without building",
		Long: `Validate decodes every item and collection, skips drafts, checks required
fields, assigns ids and resolves collection references. Nothing is fetched
and nothing is written. Exits non-zero on the first problem.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := buildFlags{dryRun: true}.options()
			res, err := build.New(appFS, opts, build.WithLogger(logger)).Check(cmd.Context())
			if err != nil {
				return err
			}
			ok("%d items and %d collections are valid (%d drafts skipped)", res.TotalItems(), res.Collections, res.Drafts)
			return nil
		},
	}
}
