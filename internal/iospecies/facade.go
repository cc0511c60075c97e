// Package iospecies implements the species name service facade. Names
// come from a WFS endpoint (Herbie) as GeoJSON features and are cached
// in a local SQLite database between runs.
//
// A Herbie species is a WFS feature with all species information in
// the properties field; only species_name and name_id are requested,
// which keeps the responses small.
package iospecies

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"golang.org/x/sync/errgroup"

	"github.com/gaiaresources/biosys/pkg/config"
	"github.com/gaiaresources/biosys/pkg/species"
)

// propertyFilter limits WFS responses to the two properties the name
// map needs. WFS spec: propertyName=(p1,p2,...).
const propertyFilter = "(species_name,name_id)"

type featureCollection struct {
	TotalFeatures int       `json:"totalFeatures"`
	Features      []feature `json:"features"`
}

type feature struct {
	Properties struct {
		SpeciesName string `json:"species_name"`
		NameID      int64  `json:"name_id"`
	} `json:"properties"`
}

type herbie struct {
	cfg       config.SpeciesConfig
	cachePath string
	jobs      int
	client    *http.Client
}

// New creates a species facade backed by a Herbie WFS endpoint and a
// SQLite cache file. An empty cachePath disables caching. jobs bounds
// the number of pages fetched in parallel; zero means one.
func New(cfg config.SpeciesConfig, cachePath string, jobs int) species.Facade {
	if jobs < 1 {
		jobs = 1
	}
	return &herbie{
		cfg:       cfg,
		cachePath: cachePath,
		jobs:      jobs,
		client:    &http.Client{Timeout: 5 * time.Minute},
	}
}

func (h *herbie) SpeciesNameIDs(ctx context.Context) (map[string]int64, error) {
	if h.cachePath == "" {
		return h.fetchAll(ctx)
	}

	c, err := openCache(ctx, h.cachePath)
	if err != nil {
		return nil, err
	}
	defer c.close()

	sourceID := gnuuid.New(h.cfg.ServiceURL).String()

	fetchedAt, err := c.fetchedAt(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(h.cfg.CacheTTLHours) * time.Hour
	if !fetchedAt.IsZero() && time.Since(fetchedAt) < ttl {
		names, err := c.load(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		slog.Info("Using cached species names",
			"count", len(names), "fetchedAt", fetchedAt)
		return names, nil
	}

	names, err := h.fetchAll(ctx)
	if err != nil {
		// A stale cache beats no names at all when the service is
		// unreachable.
		if !fetchedAt.IsZero() {
			stale, cerr := c.load(ctx, sourceID)
			if cerr == nil && len(stale) > 0 {
				slog.Warn("Species service unavailable, using stale cache",
					"error", err, "fetchedAt", fetchedAt)
				return stale, nil
			}
		}
		return nil, err
	}

	if err := c.store(ctx, sourceID, h.cfg.ServiceURL, names); err != nil {
		return nil, err
	}
	return names, nil
}

// fetchAll downloads every species page. The first page reveals the
// total feature count; the remaining pages are fetched concurrently.
func (h *herbie) fetchAll(ctx context.Context) (map[string]int64, error) {
	pageSize := h.cfg.PageSize
	if pageSize < 1 {
		pageSize = 5_000
	}

	first, err := h.fetchPage(ctx, 0, pageSize)
	if err != nil {
		return nil, err
	}

	res := make(map[string]int64, first.TotalFeatures)
	mergePage(res, first)

	if first.TotalFeatures <= pageSize {
		// Some servers omit totalFeatures; keep paging until a
		// short page when the first page came back full.
		if first.TotalFeatures == 0 && len(first.Features) == pageSize {
			return h.fetchSequential(ctx, res, pageSize)
		}
		slog.Info("Fetched species names", "count", len(res))
		return res, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(h.jobs)

	var mu sync.Mutex
	for start := pageSize; start < first.TotalFeatures; start += pageSize {
		g.Go(func() error {
			page, err := h.fetchPage(gCtx, start, pageSize)
			if err != nil {
				return err
			}
			mu.Lock()
			mergePage(res, page)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Fetched species names", "count", len(res))
	return res, nil
}

func (h *herbie) fetchSequential(
	ctx context.Context,
	res map[string]int64,
	pageSize int,
) (map[string]int64, error) {
	for start := pageSize; ; start += pageSize {
		page, err := h.fetchPage(ctx, start, pageSize)
		if err != nil {
			return nil, err
		}
		mergePage(res, page)
		if len(page.Features) < pageSize {
			break
		}
	}
	slog.Info("Fetched species names", "count", len(res))
	return res, nil
}

func (h *herbie) fetchPage(
	ctx context.Context,
	start, size int,
) (*featureCollection, error) {
	u, err := url.Parse(h.cfg.ServiceURL)
	if err != nil {
		return nil, FetchError(h.cfg.ServiceURL, err)
	}
	q := u.Query()
	q.Set("propertyName", propertyFilter)
	q.Set("startIndex", strconv.Itoa(start))
	q.Set("maxFeatures", strconv.Itoa(size))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, FetchError(u.String(), err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, FetchError(u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		return nil, FetchError(u.String(), err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, FetchError(u.String(), err)
	}

	// GeoServer reports request errors as XML, which fails JSON
	// decoding and surfaces here.
	var page featureCollection
	enc := gnfmt.GNjson{}
	if err := enc.Decode(body, &page); err != nil {
		return nil, DecodeError(u.String(), err)
	}
	return &page, nil
}

func mergePage(res map[string]int64, page *featureCollection) {
	for _, f := range page.Features {
		if f.Properties.SpeciesName == "" {
			continue
		}
		res[f.Properties.SpeciesName] = f.Properties.NameID
	}
}
