package iospecies

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// cacheSchema keeps one row per naming service in sources and the
// fetched name list in species. A service is keyed by the UUID v5 of
// its URL so several endpoints can share one cache file.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS sources (
  id TEXT PRIMARY KEY,
  url TEXT NOT NULL,
  fetched_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS species (
  source_id TEXT NOT NULL,
  name TEXT NOT NULL,
  name_id INTEGER NOT NULL,
  PRIMARY KEY (source_id, name)
);
`

type cache struct {
	db   *sql.DB
	path string
}

func openCache(ctx context.Context, path string) (*cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, CacheOpenError(path, err)
	}
	if _, err := db.ExecContext(ctx, cacheSchema); err != nil {
		db.Close()
		return nil, CacheOpenError(path, err)
	}
	return &cache{db: db, path: path}, nil
}

func (c *cache) close() error {
	return c.db.Close()
}

// fetchedAt returns when the source was last refreshed, or zero time
// when the source has never been cached.
func (c *cache) fetchedAt(ctx context.Context, sourceID string) (time.Time, error) {
	var unix int64
	err := c.db.QueryRowContext(ctx,
		"SELECT fetched_at FROM sources WHERE id = ?", sourceID,
	).Scan(&unix)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, CacheReadError(c.path, err)
	}
	return time.Unix(unix, 0), nil
}

func (c *cache) load(ctx context.Context, sourceID string) (map[string]int64, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name, name_id FROM species WHERE source_id = ?", sourceID,
	)
	if err != nil {
		return nil, CacheReadError(c.path, err)
	}
	defer rows.Close()

	res := make(map[string]int64)
	for rows.Next() {
		var name string
		var nameID int64
		if err := rows.Scan(&name, &nameID); err != nil {
			return nil, CacheReadError(c.path, err)
		}
		res[name] = nameID
	}
	if err := rows.Err(); err != nil {
		return nil, CacheReadError(c.path, err)
	}
	return res, nil
}

// store replaces the cached name list of a source in one transaction.
func (c *cache) store(
	ctx context.Context,
	sourceID, url string,
	names map[string]int64,
) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return CacheWriteError(c.path, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM species WHERE source_id = ?", sourceID,
	); err != nil {
		_ = tx.Rollback()
		return CacheWriteError(c.path, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO species (source_id, name, name_id) VALUES (?, ?, ?)",
	)
	if err != nil {
		_ = tx.Rollback()
		return CacheWriteError(c.path, err)
	}
	defer stmt.Close()

	for name, nameID := range names {
		if _, err := stmt.ExecContext(ctx, sourceID, name, nameID); err != nil {
			_ = tx.Rollback()
			return CacheWriteError(c.path, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sources (id, url, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET url = excluded.url,
		   fetched_at = excluded.fetched_at`,
		sourceID, url, time.Now().Unix(),
	); err != nil {
		_ = tx.Rollback()
		return CacheWriteError(c.path, err)
	}

	if err := tx.Commit(); err != nil {
		return CacheWriteError(c.path, err)
	}
	return nil
}
