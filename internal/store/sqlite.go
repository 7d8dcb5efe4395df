package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS weather_cache (
	key       TEXT PRIMARY KEY,
	data      TEXT NOT NULL,
	stored_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS favorites (
	key      TEXT PRIMARY KEY,
	lat      REAL NOT NULL,
	lon      REAL NOT NULL,
	name     TEXT NOT NULL DEFAULT '',
	country  TEXT NOT NULL DEFAULT '',
	added_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLiteBackend stores the collections in a SQLite file.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:" gives
// a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: :memory: databases are per-connection and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) GetPreference(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return []byte(value), nil
}

func (s *SQLiteBackend) PutPreference(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Preferences(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[key] = []byte(value)
	}
	return out, rows.Err()
}

func (s *SQLiteBackend) GetFavorite(ctx context.Context, key string) (Favorite, error) {
	var f Favorite
	var addedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT key, lat, lon, name, country, added_at FROM favorites WHERE key = ?`, key,
	).Scan(&f.Key, &f.Lat, &f.Lon, &f.Name, &f.Country, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Favorite{}, ErrNotFound
	}
	if err != nil {
		return Favorite{}, fmt.Errorf("get favorite: %w", err)
	}
	f.AddedAt = time.UnixMilli(addedAt).UTC()
	return f, nil
}

func (s *SQLiteBackend) PutFavorite(ctx context.Context, f Favorite) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (key, lat, lon, name, country, added_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET lat = excluded.lat, lon = excluded.lon,
		 name = excluded.name, country = excluded.country, added_at = excluded.added_at`,
		f.Key, f.Lat, f.Lon, f.Name, f.Country, f.AddedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put favorite: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) DeleteFavorite(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Favorites(ctx context.Context) ([]Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, lat, lon, name, country, added_at FROM favorites`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := []Favorite{}
	for rows.Next() {
		var f Favorite
		var addedAt int64
		if err := rows.Scan(&f.Key, &f.Lat, &f.Lon, &f.Name, &f.Country, &addedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.AddedAt = time.UnixMilli(addedAt).UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteBackend) GetCache(ctx context.Context, key string) (CacheEntry, error) {
	var data string
	var storedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT data, stored_at FROM weather_cache WHERE key = ?`, key,
	).Scan(&data, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CacheEntry{}, ErrNotFound
	}
	if err != nil {
		return CacheEntry{}, fmt.Errorf("get cache: %w", err)
	}
	return CacheEntry{Key: key, Data: []byte(data), StoredAt: time.UnixMilli(storedAt).UTC()}, nil
}

func (s *SQLiteBackend) PutCache(ctx context.Context, e CacheEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weather_cache (key, data, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET data = excluded.data, stored_at = excluded.stored_at`,
		e.Key, string(e.Data), e.StoredAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put cache: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) DeleteCachePrefix(ctx context.Context, prefix string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM weather_cache WHERE substr(key, 1, ?) = ?`, len(prefix), prefix,
	)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"weather_cache", "favorites", "preferences"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
