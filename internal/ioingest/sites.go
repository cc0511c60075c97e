package ioingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gnames/gnfmt"

	"github.com/gaiaresources/biosys/internal/ioreader"
	"github.com/gaiaresources/biosys/pkg/gis"
	"github.com/gaiaresources/biosys/pkg/ingest"
	"github.com/gaiaresources/biosys/pkg/models"
	"github.com/gaiaresources/biosys/pkg/schema"
)

// siteColumns maps site model fields to their accepted column
// spellings. Any other column lands in the site's attributes.
var siteColumns = map[string][]string{
	"code":        {"code", "site code", "site_code"},
	"name":        {"name", "site name"},
	"description": {"description"},
}

// siteGeometryDescriptor is the fixed probe schema of the site
// uploader: every geometry spelling is known, none is required, so a
// site file may carry lat/long, easting/northing or nothing at all.
func siteGeometryDescriptor() *schema.Descriptor {
	return &schema.Descriptor{Fields: []*schema.FieldDescriptor{
		{
			Name: schema.NorthingName, Type: schema.TypeNumber,
			Biosys: &schema.BiosysTag{Type: schema.TagNorthing},
		},
		{
			Name: schema.EastingName, Type: schema.TypeNumber,
			Biosys: &schema.BiosysTag{Type: schema.TagEasting},
		},
		{
			Name: schema.LatitudeName, Type: schema.TypeNumber,
			Biosys:      &schema.BiosysTag{Type: schema.TagLatitude},
			Constraints: map[string]any{"minimum": -90.0, "maximum": 90.0},
		},
		{
			Name: schema.LongitudeName, Type: schema.TypeNumber,
			Biosys:      &schema.BiosysTag{Type: schema.TagLongitude},
			Constraints: map[string]any{"minimum": -180.0, "maximum": 180.0},
		},
		{
			Name: schema.DatumName, Type: schema.TypeString,
			Biosys: &schema.BiosysTag{Type: schema.TagDatum},
		},
		{
			Name: schema.ZoneName, Type: schema.TypeInteger,
			Biosys: &schema.BiosysTag{Type: schema.TagZone},
		},
	}}
}

func (ing *ingestor) UploadSites(
	ctx context.Context, project, path string,
) (*ingest.Summary, error) {
	proj, err := ing.store.ProjectByName(ctx, project)
	if err != nil {
		return nil, err
	}

	table, err := ioreader.Read(path)
	if err != nil {
		return nil, err
	}

	existing, err := ing.store.SitesByProject(ctx, proj.ID)
	if err != nil {
		return nil, SitesError(project, err)
	}

	probe, err := schema.New(siteGeometryDescriptor())
	if err != nil {
		return nil, SitesError(project, err)
	}
	parser := schema.NewGeometryParser(probe)

	summary := ingest.NewSummary()
	enc := gnfmt.GNjson{}

	for i, row := range table.MapRows() {
		result := ingest.NewValidationResult()

		code := siteValue(table.Headers, row, siteColumns["code"])
		if code == "" {
			result.AddError(schema.SiteCodeName, "Site Code is missing")
			summary.AddRow(i+2, result, false)
			continue
		}

		site := &models.Site{
			ProjectID:   proj.ID,
			Code:        code,
			Name:        siteValue(table.Headers, row, siteColumns["name"]),
			Description: siteValue(table.Headers, row, siteColumns["description"]),
		}

		attrs, err := enc.Encode(siteAttributes(row))
		if err == nil {
			site.Attributes = string(attrs)
		}

		// A site without a geometry is legal; a bad geometry column is
		// worth a warning but never rejects the site.
		point, gerr := parser.CastGeometry(row, ing.cfg.Ingest.DefaultSRID, nil)
		if gerr == nil {
			if wkt, werr := gis.EncodeWKT(point); werr == nil {
				site.Geometry = sql.NullString{String: wkt, Valid: true}
			}
		} else if hasGeometryValue(parser, row) {
			result.AddWarning(schema.SiteCodeName, gerr.Error())
		}

		// The previous point decides which legacy records still follow
		// the site after the update.
		var oldWKT string
		if prev, ok := existing[code]; ok && prev.Geometry.Valid {
			oldWKT = prev.Geometry.String
		}

		if err := ing.store.SaveSite(ctx, site); err != nil {
			result.AddError(schema.SiteCodeName, err.Error())
			summary.AddRow(i+2, result, false)
			continue
		}
		existing[code] = site

		// Records that borrowed this site's point follow it.
		if site.Geometry.Valid {
			if _, err := ing.store.RefreshSiteRecords(
				ctx, site.ID, oldWKT, site.Geometry.String,
			); err != nil {
				return nil, SitesError(project, err)
			}
		}
		summary.AddRow(i+2, result, true)
	}
	return summary, nil
}

// siteValue finds the first header matching one of the accepted
// spellings and returns its trimmed value.
func siteValue(headers []string, row map[string]any, aliases []string) string {
	for _, header := range headers {
		for _, alias := range aliases {
			if strings.EqualFold(header, alias) {
				if v, ok := row[header]; ok && v != nil {
					return strings.TrimSpace(fmt.Sprint(v))
				}
				return ""
			}
		}
	}
	return ""
}

// siteAttributes keeps every column the site model has no field for.
func siteAttributes(row map[string]any) map[string]any {
	mapped := map[string]struct{}{}
	for _, aliases := range siteColumns {
		for _, a := range aliases {
			mapped[a] = struct{}{}
		}
	}
	attrs := map[string]any{}
	for k, v := range row {
		if _, ok := mapped[strings.ToLower(k)]; !ok {
			attrs[k] = v
		}
	}
	return attrs
}

// hasGeometryValue reports whether the row carries a value in any of
// the probe's geometry columns.
func hasGeometryValue(p *schema.GeometryParser, row map[string]any) bool {
	for _, f := range p.ActiveFields() {
		if v, ok := row[f.Name]; ok && v != nil {
			if s, isStr := v.(string); !isStr || strings.TrimSpace(s) != "" {
				return true
			}
		}
	}
	return false
}
