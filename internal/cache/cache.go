package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &Cache{writeDB: writeDB}
	// Schema must exist before a read-only handle can see it.
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", dbPath+"?_pragma=query_only(1)")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			id          TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			title       TEXT NOT NULL,
			link        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			published   DATETIME NOT NULL,
			fetched_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published DESC);
		CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);

		CREATE TABLE IF NOT EXISTS readings (
			run_id      TEXT PRIMARY KEY,
			idx         INTEGER NOT NULL,
			label       TEXT NOT NULL,
			articles    INTEGER NOT NULL,
			fear_count  INTEGER NOT NULL,
			greed_count INTEGER NOT NULL,
			recorded_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_readings_recorded ON readings(recorded_at DESC);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *Cache) UpsertArticles(articles []Article) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO articles (id, source, title, link, description, published, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		_, err := stmt.Exec(a.ID, a.Source, a.Title, a.Link, a.Description, a.Published.UTC(), a.FetchedAt.UTC())
		if err != nil {
			return fmt.Errorf("upserting article %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func (c *Cache) GetArticles(opts QueryOpts) ([]Article, error) {
	var (
		where []string
		args  []interface{}
	)

	if !opts.Since.IsZero() {
		where = append(where, "published >= ?")
		args = append(args, opts.Since.UTC())
	}

	if len(opts.Sources) > 0 {
		placeholders := make([]string, len(opts.Sources))
		for i, s := range opts.Sources {
			placeholders[i] = "?"
			args = append(args, s)
		}
		where = append(where, "source IN ("+strings.Join(placeholders, ",")+")") //nolint:gosec
	}

	if opts.Search != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term)
	}

	query := "SELECT id, source, title, link, description, published, fetched_at FROM articles"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY published DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := c.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Source, &a.Title, &a.Link, &a.Description, &a.Published, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticlesSince returns every cached article published at or after since.
func (c *Cache) GetArticlesSince(since time.Time) ([]Article, error) {
	return c.GetArticles(QueryOpts{Since: since, Limit: 10000})
}

// Prune deletes articles published before now-olderThan and returns how many were removed.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := c.writeDB.Exec("DELETE FROM articles WHERE published < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting articles: %w", err)
	}
	if _, err := c.writeDB.Exec("DELETE FROM readings WHERE recorded_at < ?", cutoff); err != nil {
		return 0, fmt.Errorf("deleting readings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.writeDB.Exec("VACUUM")
	}
	return n, nil
}

// Stats returns the article count and the on-disk size of the database file.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat db: %w", err)
	}
	return count, fi.Size(), nil
}

// RecordReading stores one fear/greed index value.
func (c *Cache) RecordReading(r Reading) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO readings (run_id, idx, label, articles, fear_count, greed_count, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`, r.RunID, r.Index, r.Label, r.Articles, r.FearCount, r.GreedCount, r.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording reading %s: %w", r.RunID, err)
	}
	return nil
}

// Readings returns the most recent fear/greed readings, newest first.
func (c *Cache) Readings(limit int) ([]Reading, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := c.readDB.Query(`
		SELECT run_id, idx, label, articles, fear_count, greed_count, recorded_at
		FROM readings ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(&r.RunID, &r.Index, &r.Label, &r.Articles, &r.FearCount, &r.GreedCount, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (c *Cache) NeedsRefresh(interval time.Duration) bool {
	value, err := c.getMeta("last_refresh")
	if err != nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(t) > interval
}

func (c *Cache) SetLastRefresh() error {
	return c.setMeta("last_refresh", time.Now().Format(time.RFC3339))
}

// RefreshCount returns how many refreshes have been recorded.
func (c *Cache) RefreshCount() int {
	v, err := c.getMeta("refresh_count")
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

// IncrementRefreshCount bumps the refresh counter and returns the new value.
func (c *Cache) IncrementRefreshCount() (int, error) {
	n := c.RefreshCount() + 1
	if err := c.setMeta("refresh_count", strconv.Itoa(n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Cache) getMeta(key string) (string, error) {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	return value, err
}

func (c *Cache) setMeta(key, value string) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
