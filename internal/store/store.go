// Package store persists value records in an embedded DuckDB database.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joeblew999/plat-landval/internal/metrics"
	"github.com/joeblew999/plat-landval/internal/service"
)

// Config holds store configuration.
type Config struct {
	DataDir string
	DBName  string // database file name without extension, default "landval"
}

// Store is the value_records table. Every operation opens its own connection
// and closes it before returning; nothing is pooled or shared across calls,
// so the database file is always released between operations.
//
// The schema enforces column types and nothing else: no primary key, no
// NOT NULL. Uniqueness of ids rests on the generator, not the table.
type Store struct {
	path string
}

// New creates a store rooted in cfg.DataDir. The database file itself is
// created lazily on first use.
func New(cfg Config) (*Store, error) {
	dir := filepath.Join(cfg.DataDir, "duckdb")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create duckdb directory: %w", err)
	}
	name := cfg.DBName
	if name == "" {
		name = "landval"
	}
	return &Store{path: filepath.Join(dir, name+".duckdb")}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// withConn opens a fresh connection, runs fn, and closes it again.
func (s *Store) withConn(fn func(db *sqlx.DB) error) error {
	db, err := sqlx.Open("duckdb", s.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

const schema = `
CREATE TABLE IF NOT EXISTS value_records (
	id VARCHAR,
	latitude DOUBLE,
	longitude DOUBLE,
	value DOUBLE,
	capture_date VARCHAR,
	source VARCHAR,
	services VARCHAR,
	surface_area DOUBLE
)`

// Initialize creates the value_records table if it does not exist. Calling
// it again is a no-op; existing rows are untouched.
func (s *Store) Initialize(ctx context.Context) error {
	return s.withConn(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("create value_records table: %w", err)
		}
		return nil
	})
}

// LoadAll returns every record. No ORDER BY: rows come back in whatever
// order DuckDB keeps them, which in practice is insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]service.ValueRecord, error) {
	var records []service.ValueRecord
	err := s.withConn(func(db *sqlx.DB) error {
		return db.SelectContext(ctx, &records,
			`SELECT id, latitude, longitude, value, capture_date, source, services, surface_area
			 FROM value_records`)
	})
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if records == nil {
		records = []service.ValueRecord{}
	}
	return records, nil
}

// Append inserts one record.
func (s *Store) Append(ctx context.Context, rec service.ValueRecord) error {
	timer := prometheus.NewTimer(metrics.AppendDuration)
	defer timer.ObserveDuration()

	return s.withConn(func(db *sqlx.DB) error {
		_, err := db.NamedExecContext(ctx,
			`INSERT INTO value_records
			 (id, latitude, longitude, value, capture_date, source, services, surface_area)
			 VALUES (:id, :latitude, :longitude, :value, :capture_date, :source, :services, :surface_area)`,
			rec)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.withConn(func(db *sqlx.DB) error {
		return db.GetContext(ctx, &n, `SELECT count(*) FROM value_records`)
	})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
