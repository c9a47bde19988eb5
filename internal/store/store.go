// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists cached query responses and the append-only
// analytics log.
// Implements: prd006-cache (R1-R5);
//
//	docs/ARCHITECTURE § Cache & Analytics.
//
// The SQLite backend is the default and also carries the analytics log;
// the Redis backend (redis.go) covers deployments that already run a
// shared cache. Both honor the same contract: put overwrites
// unconditionally, an expired entry is indistinguishable from a miss.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/space-hub/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "spacehub.db"
)

// Cache is the response cache contract (R1, R2).
type Cache interface {
	// Get returns the payload for key, or ok=false on miss or expiry.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// Put stores payload under key for ttl, overwriting any existing
	// entry regardless of its remaining lifetime.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	Close() error
}

// Analytics is the append-only execution log contract (R4).
type Analytics interface {
	Append(ctx context.Context, rec types.AnalyticsRecord) error
}

// Key derives the cache key from the normalized query text, the selected
// datasets, and the sort mode (R1.1). Dataset order does not matter.
func Key(query string, datasets []types.Dataset, mode types.SortMode) string {
	names := make([]string, 0, len(datasets))
	for _, d := range datasets {
		names = append(names, string(d))
	}
	sort.Strings(names)

	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized + "|" + strings.Join(names, ",") + "|" + string(mode)))
	return hex.EncodeToString(sum[:])
}

// Store is the SQLite-backed cache and analytics log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the database at dir/index/spacehub.db and
// creates the schema if it does not exist (R5.2).
func NewStore(cfg types.CacheConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analytics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query_hash TEXT NOT NULL,
			query TEXT NOT NULL,
			intent TEXT NOT NULL,
			complexity TEXT NOT NULL,
			datasets TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			cache_hit INTEGER NOT NULL,
			error TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_hash ON analytics(query_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached payload for key. An entry past its expiry is
// treated identically to absence (R2.2) and removed opportunistically.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM cache WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	if s.now().Unix() >= expiresAt {
		s.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
		return nil, false, nil
	}
	return payload, true, nil
}

// Put upserts the entry for key with a fresh expiry (R2.1). Last write
// wins under concurrent identical queries.
func (s *Store) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache (key, payload, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		key, payload, expiresAt)
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// Append writes one analytics row (R4.1). Rows are never updated.
func (s *Store) Append(ctx context.Context, rec types.AnalyticsRecord) error {
	names := make([]string, 0, len(rec.Datasets))
	for _, d := range rec.Datasets {
		names = append(names, string(d))
	}
	cacheHit := 0
	if rec.CacheHit {
		cacheHit = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analytics
			(query_hash, query, intent, complexity, datasets, result_count, latency_ms, cache_hit, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.QueryHash, rec.Query, string(rec.Intent), string(rec.Complexity),
		strings.Join(names, ","), rec.ResultCount, rec.LatencyMS, cacheHit,
		rec.ErrorMessage, rec.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("analytics append: %w", err)
	}
	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	CacheEntries   int
	ExpiredEntries int
	AnalyticsRows  int
}

// ReadStats counts live and expired cache entries and analytics rows.
func (s *Store) ReadStats(ctx context.Context) (Stats, error) {
	var st Stats
	now := s.now().Unix()
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM cache WHERE expires_at > ?`, now).Scan(&st.CacheEntries); err != nil {
		return st, fmt.Errorf("counting cache entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM cache WHERE expires_at <= ?`, now).Scan(&st.ExpiredEntries); err != nil {
		return st, fmt.Errorf("counting expired entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM analytics`).Scan(&st.AnalyticsRows); err != nil {
		return st, fmt.Errorf("counting analytics rows: %w", err)
	}
	return st, nil
}

// Purge removes every cache entry, expired or not.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache`)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RecentQueries returns up to n most recent analytics rows, newest
// first.
func (s *Store) RecentQueries(ctx context.Context, n int) ([]types.AnalyticsRecord, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query_hash, query, intent, complexity, datasets, result_count, latency_ms, cache_hit, error, created_at
		 FROM analytics ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("reading analytics: %w", err)
	}
	defer rows.Close()

	var out []types.AnalyticsRecord
	for rows.Next() {
		var rec types.AnalyticsRecord
		var datasets, created string
		var cacheHit int
		if err := rows.Scan(&rec.QueryHash, &rec.Query, &rec.Intent, &rec.Complexity,
			&datasets, &rec.ResultCount, &rec.LatencyMS, &cacheHit, &rec.ErrorMessage, &created); err != nil {
			return nil, fmt.Errorf("scanning analytics row: %w", err)
		}
		rec.CacheHit = cacheHit == 1
		if datasets != "" {
			for _, d := range strings.Split(datasets, ",") {
				rec.Datasets = append(rec.Datasets, types.Dataset(d))
			}
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			rec.Timestamp = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
