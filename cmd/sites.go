package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getSitesCmd returns the sites command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getSitesCmd() *cobra.Command {
	sitesCmd := &cobra.Command{
		Use:   "sites PROJECT FILE",
		Short: "Upload sites of a project from a data file",
		Long: `Sites creates or updates a project's sites from a CSV or XLSX
file.

Each row needs at least a Site Code; Name and Description columns
fill the matching site fields, and any other column is stored as a
site attribute. Latitude/Longitude or Easting/Northing columns (with
optional Datum and Zone) set the site geometry.

A site that already exists under the same code is updated in place,
and records that borrowed its geometry follow the new point.

Examples:
  biosys sites "Koala Survey" sites.csv
  biosys sites "Koala Survey" sites.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSites(cmd, args)
		},
	}

	return sitesCmd
}

func runSites(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	ing, cleanup, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := ing.UploadSites(ctx, args[0], args[1])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	printSummary(summary)
	return nil
}
