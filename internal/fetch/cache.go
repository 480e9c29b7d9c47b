package fetch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-easyapply-automation/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
    url        TEXT PRIMARY KEY,
    body       TEXT NOT NULL,
    fetched_at INTEGER NOT NULL
);
`

const DefaultTTL = 24 * time.Hour

// Cache keeps fetched page bodies in SQLite for TTL.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: cache dir: %v", models.ErrPersistence, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open cache: %v", models.ErrPersistence, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init cache schema: %v", models.ErrPersistence, err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for url; ok is false when missing or expired.
func (c *Cache) Get(ctx context.Context, url string) (body string, ok bool, err error) {
	var fetchedAt int64
	row := c.db.QueryRowContext(ctx, `SELECT body, fetched_at FROM responses WHERE url = ?`, url)
	if err := row.Scan(&body, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	if c.now().Sub(time.Unix(0, fetchedAt)) > c.ttl {
		return "", false, nil
	}
	return body, true, nil
}

func (c *Cache) Put(ctx context.Context, url, body string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO responses (url, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		url, body, c.now().UnixNano(),
	)
	return err
}
