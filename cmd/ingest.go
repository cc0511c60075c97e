package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/gaiaresources/biosys/pkg/biosys"
	"github.com/gaiaresources/biosys/pkg/config"
	"github.com/gaiaresources/biosys/pkg/ingest"
)

// getIngestCmd returns the ingest command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getIngestCmd() *cobra.Command {
	var strict bool
	var deleteExisting bool

	ingestCmd := &cobra.Command{
		Use:   "ingest PROJECT DATASET FILE",
		Short: "Upload a data file into a dataset",
		Long: `Ingest validates a CSV or XLSX file and writes the accepted
rows as records of the dataset.

When the dataset is not registered yet, its schema is inferred from
the file and the dataset is created. Observation rows get their date
and geometry cast; species observation rows also resolve the species
name against the name service.

Rejected rows never reach the database; their problems are reported
per source file row number.

Use --delete-existing to replace the dataset's previous unlocked
records. Use --strict to also reject rows carrying columns the schema
does not declare.

Examples:
  biosys ingest "Koala Survey" observations data.csv
  biosys ingest "Koala Survey" observations data.xlsx --delete-existing`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, strict, deleteExisting)
		},
	}

	ingestCmd.Flags().BoolVarP(&strict, "strict", "s",
		false, "reject rows with undeclared columns")
	ingestCmd.Flags().BoolVarP(&deleteExisting, "delete-existing", "d",
		false, "delete the dataset's previous unlocked records first")

	return ingestCmd
}

func runIngest(
	_ *cobra.Command,
	args []string,
	strict, deleteExisting bool,
) error {
	ctx := context.Background()
	cfg.Update([]config.Option{config.OptIngestStrict(strict)})

	ing, cleanup, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := ing.Ingest(ctx, biosys.IngestParams{
		Project:        args[0],
		Dataset:        args[1],
		Path:           args[2],
		DeleteExisting: deleteExisting,
	})
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	printSummary(summary)
	return nil
}

// printSummary renders the run's outcome and the per-row problems.
func printSummary(summary *ingest.Summary) {
	gn.Info("%s", summary.String())
	for rowNum, problems := range summary.RowErrors {
		for column, msg := range problems {
			gn.Warn("Row %d, column <em>%s</em>: %s", rowNum, column, msg)
		}
	}
}
