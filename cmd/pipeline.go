package cmd

import (
	"context"

	"github.com/gnames/gn"

	"github.com/gaiaresources/biosys/internal/iodb"
	"github.com/gaiaresources/biosys/internal/ioingest"
	"github.com/gaiaresources/biosys/internal/iospecies"
	"github.com/gaiaresources/biosys/pkg/biosys"
	"github.com/gaiaresources/biosys/pkg/config"
)

// newPipeline builds the upload pipeline against the configured
// database. The returned cleanup closes the connection pool.
func newPipeline(ctx context.Context) (biosys.Ingestor, func(), error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return nil, nil, err
	}

	store := iodb.NewStore(op)
	facade := iospecies.New(
		cfg.Species,
		config.SpeciesCachePath(cfg.HomeDir),
		cfg.JobsNumber,
	)
	ing := ioingest.New(store, facade, cfg)
	return ing, func() { op.Close() }, nil
}
