// Package ioingest wires the upload pipeline together: file readers,
// schema inference, record creation and the store.
package ioingest

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gn"

	"github.com/gaiaresources/biosys/internal/ioreader"
	"github.com/gaiaresources/biosys/pkg/biosys"
	"github.com/gaiaresources/biosys/pkg/config"
	"github.com/gaiaresources/biosys/pkg/errcode"
	"github.com/gaiaresources/biosys/pkg/infer"
	"github.com/gaiaresources/biosys/pkg/ingest"
	"github.com/gaiaresources/biosys/pkg/models"
	"github.com/gaiaresources/biosys/pkg/species"
)

type ingestor struct {
	store  biosys.Store
	facade species.Facade
	cfg    *config.Config
}

// New creates the upload pipeline. The species facade is only
// consulted for species observation datasets.
func New(
	store biosys.Store,
	facade species.Facade,
	cfg *config.Config,
) biosys.Ingestor {
	return &ingestor{store: store, facade: facade, cfg: cfg}
}

func (ing *ingestor) Infer(
	ctx context.Context, path string,
) (*infer.Result, error) {
	table, err := ioreader.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := infer.Infer(table.Grid())
	if err != nil {
		return nil, InferenceError(path, err)
	}
	return res, nil
}

func (ing *ingestor) Validate(
	ctx context.Context, p biosys.IngestParams,
) (*ingest.Summary, error) {
	return ing.run(ctx, p, false)
}

func (ing *ingestor) Ingest(
	ctx context.Context, p biosys.IngestParams,
) (*ingest.Summary, error) {
	return ing.run(ctx, p, true)
}

func (ing *ingestor) run(
	ctx context.Context, p biosys.IngestParams, commit bool,
) (*ingest.Summary, error) {
	project, err := ing.store.ProjectByName(ctx, p.Project)
	if err != nil {
		return nil, err
	}

	table, err := ioreader.Read(p.Path)
	if err != nil {
		return nil, err
	}

	dataset, err := ing.dataset(ctx, project, p, table, commit)
	if err != nil {
		return nil, err
	}

	sites, err := ing.store.SitesByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	var names *species.NameMap
	if dataset.Type == models.DatasetTypeSpeciesObservation {
		ids, err := ing.facade.SpeciesNameIDs(ctx)
		if err != nil {
			return nil, err
		}
		pool := species.NewPool(ing.cfg.JobsNumber)
		defer pool.Close()
		names = species.NewNameMap(ids, pool)
	}

	creator, err := ingest.NewRecordCreator(dataset,
		ingest.OptSites(siteLookup(sites)),
		ingest.OptNames(names),
		ingest.OptFileName(filepath.Base(p.Path)),
		ingest.OptStrict(ing.cfg.Ingest.Strict),
		ingest.OptDefaultSRID(ing.cfg.Ingest.DefaultSRID),
	)
	if err != nil {
		return nil, SchemaError(dataset.Name, err)
	}

	if commit && p.DeleteExisting {
		deleted, err := ing.store.DeleteDatasetRecords(ctx, dataset.ID)
		if err != nil {
			return nil, err
		}
		slog.Info("Deleted previous records",
			"dataset", dataset.Name, "count", deleted)
	}

	rows := table.MapRows()
	bar := pb.Full.Start(len(rows))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	summary := ingest.NewSummary()
	var batch []*models.Record
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, result := creator.CreateRecord(row, i)
		summary.AddRow(i+2, result, commit && record != nil)

		if commit && record != nil {
			batch = append(batch, record)
			if len(batch) >= ing.cfg.Database.BatchSize {
				if err := ing.store.InsertRecords(ctx, batch); err != nil {
					return nil, RecordsError(dataset.Name, err)
				}
				batch = nil
			}
		}
		bar.Increment()
	}
	if len(batch) > 0 {
		if err := ing.store.InsertRecords(ctx, batch); err != nil {
			return nil, RecordsError(dataset.Name, err)
		}
	}

	slog.Info("Processed file",
		"file", filepath.Base(p.Path),
		"dataset", dataset.Name,
		"summary", summary.String())
	return summary, nil
}

// dataset resolves the target dataset. A dataset name with no match in
// the project gets a schema inferred from the file; the dataset is
// registered only when the run commits.
func (ing *ingestor) dataset(
	ctx context.Context,
	project *models.Project,
	p biosys.IngestParams,
	table *ioreader.Table,
	commit bool,
) (*models.Dataset, error) {
	dataset, err := ing.store.DatasetByName(ctx, project.ID, p.Dataset)
	if err == nil {
		return dataset, nil
	}
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) || gnErr.Code != errcode.IngestDatasetNotFoundError {
		return nil, err
	}

	res, err := infer.Infer(table.Grid())
	if err != nil {
		return nil, InferenceError(p.Path, err)
	}
	data, err := res.Descriptor.JSON()
	if err != nil {
		return nil, InferenceError(p.Path, err)
	}
	dataset = &models.Dataset{
		ProjectID:   project.ID,
		Name:        p.Dataset,
		Type:        res.DatasetType,
		DataPackage: string(data),
	}
	if commit {
		if err := ing.store.CreateDataset(ctx, dataset); err != nil {
			return nil, err
		}
		slog.Info("Created dataset from inferred schema",
			"dataset", dataset.Name, "type", dataset.Type)
	}
	return dataset, nil
}

// siteLookup adapts the sites of one project to the record pipeline.
type siteLookup map[string]*models.Site

func (s siteLookup) SiteByCode(code string) (*models.Site, bool) {
	site, ok := s[code]
	return site, ok
}
