package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/gaiaresources/biosys/pkg/biosys"
	"github.com/gaiaresources/biosys/pkg/config"
)

// getValidateCmd returns the validate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getValidateCmd() *cobra.Command {
	var strict bool

	validateCmd := &cobra.Command{
		Use:   "validate PROJECT DATASET FILE",
		Short: "Validate a data file without writing records",
		Long: `Validate runs the full upload pipeline over a file without
writing any records.

Every row is checked against the dataset's schema: cell types and
constraints, the observation date, the geometry columns and the
species identity, depending on the dataset type. When the dataset is
not registered yet, its schema is inferred from the file first.

Row problems are reported per source file row number.

Use --strict to also reject rows carrying columns the schema does not
declare.

Examples:
  biosys validate "Koala Survey" observations data.csv
  biosys validate "Koala Survey" observations data.xlsx --strict`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, strict)
		},
	}

	validateCmd.Flags().BoolVarP(&strict, "strict", "s",
		false, "reject rows with undeclared columns")

	return validateCmd
}

func runValidate(
	_ *cobra.Command,
	args []string,
	strict bool,
) error {
	ctx := context.Background()
	cfg.Update([]config.Option{config.OptIngestStrict(strict)})

	ing, cleanup, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := ing.Validate(ctx, biosys.IngestParams{
		Project: args[0],
		Dataset: args[1],
		Path:    args[2],
	})
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	printSummary(summary)
	return nil
}
