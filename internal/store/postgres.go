package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS weather_cache (
		key       TEXT PRIMARY KEY,
		data      TEXT NOT NULL,
		stored_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		key      TEXT PRIMARY KEY,
		lat      DOUBLE PRECISION NOT NULL,
		lon      DOUBLE PRECISION NOT NULL,
		name     TEXT NOT NULL DEFAULT '',
		country  TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// PostgresBackend stores the collections in PostgreSQL.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) GetPreference(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM preferences WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return []byte(value), nil
}

func (p *PostgresBackend) PutPreference(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO preferences (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Preferences(ctx context.Context) (map[string][]byte, error) {
	rows, err := p.pool.Query(ctx, `SELECT key, value FROM preferences`)
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

func (p *PostgresBackend) GetFavorite(ctx context.Context, key string) (Favorite, error) {
	var f Favorite
	err := p.pool.QueryRow(ctx,
		`SELECT key, lat, lon, name, country, added_at FROM favorites WHERE key = $1`, key,
	).Scan(&f.Key, &f.Lat, &f.Lon, &f.Name, &f.Country, &f.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Favorite{}, ErrNotFound
	}
	if err != nil {
		return Favorite{}, fmt.Errorf("get favorite: %w", err)
	}
	f.AddedAt = f.AddedAt.UTC()
	return f, nil
}

func (p *PostgresBackend) PutFavorite(ctx context.Context, f Favorite) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO favorites (key, lat, lon, name, country, added_at) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (key) DO UPDATE SET lat = $2, lon = $3, name = $4, country = $5, added_at = $6`,
		f.Key, f.Lat, f.Lon, f.Name, f.Country, f.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("put favorite: %w", err)
	}
	return nil
}

func (p *PostgresBackend) DeleteFavorite(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM favorites WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Favorites(ctx context.Context) ([]Favorite, error) {
	rows, err := p.pool.Query(ctx, `SELECT key, lat, lon, name, country, added_at FROM favorites`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.Key, &f.Lat, &f.Lon, &f.Name, &f.Country, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.AddedAt = f.AddedAt.UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *PostgresBackend) GetCache(ctx context.Context, key string) (CacheEntry, error) {
	var data string
	var storedAt time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT data, stored_at FROM weather_cache WHERE key = $1`, key,
	).Scan(&data, &storedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CacheEntry{}, ErrNotFound
	}
	if err != nil {
		return CacheEntry{}, fmt.Errorf("get cache: %w", err)
	}
	return CacheEntry{Key: key, Data: []byte(data), StoredAt: storedAt.UTC()}, nil
}

func (p *PostgresBackend) PutCache(ctx context.Context, e CacheEntry) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO weather_cache (key, data, stored_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET data = $2, stored_at = $3`,
		e.Key, string(e.Data), e.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("put cache: %w", err)
	}
	return nil
}

func (p *PostgresBackend) DeleteCachePrefix(ctx context.Context, prefix string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM weather_cache WHERE starts_with(key, $1)`, prefix)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Clear truncates all collections in one batch.
func (p *PostgresBackend) Clear(ctx context.Context) error {
	tables := []string{"weather_cache", "favorites", "preferences"}
	batch := &pgx.Batch{}
	for _, table := range tables {
		batch.Queue("DELETE FROM " + table)
	}
	br := p.pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, table := range tables {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
