package cmd

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/gaiaresources/biosys/internal/ioingest"
	"github.com/gaiaresources/biosys/internal/iospecies"
)

// getInferCmd returns the infer command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getInferCmd() *cobra.Command {
	inferCmd := &cobra.Command{
		Use:   "infer FILE",
		Short: "Infer a dataset schema from a data file",
		Long: `Infer derives a dataset schema from a CSV or XLSX file.

The column types are voted from the file's values, geometry and
species columns are recognized by name and tagged, and the dataset is
classified as generic, observation or species_observation.

The inferred schema descriptor is printed as JSON and can be stored
with a dataset unchanged.

Examples:
  biosys infer observations.csv
  biosys infer observations.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, args)
		},
	}

	return inferCmd
}

func runInfer(_ *cobra.Command, args []string) error {
	// Inference never touches the database or the species service.
	ing := ioingest.New(nil, iospecies.NewNone(), cfg)

	res, err := ing.Infer(context.Background(), args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	data, err := res.Descriptor.JSON()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Dataset type: <em>%s</em>", res.DatasetType)
	fmt.Println(string(data))

	return nil
}
