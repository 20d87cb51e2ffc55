// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists built name indexes in a local SQLite database so
// later runs skip the TSV scan.
// Implements: docs/ARCHITECTURE § Index Cache.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/clinpgx-lookup/internal/index"
)

const dbFile = "name_index.db"

// Store manages the index cache SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the cache database at cacheDir/name_index.db.
// It creates the schema if it does not exist.
func NewStore(cacheDir string) (*Store, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

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

// Path returns the location of the cache database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS name_index (
			dataset TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			source_path TEXT,
			source_mod_time TEXT NOT NULL,
			built_at TEXT,
			build_duration_ns INTEGER,
			row_count INTEGER,
			name_count INTEGER,
			payload BLOB NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// Load returns the cached index for dataset. It returns (nil, nil) when no
// entry exists or the entry is stale: written by a different schema version,
// or older than sourceModTime, the mod time of the live data file. A non-nil
// error means an entry exists but could not be read back; callers rebuild in
// either case.
func (s *Store) Load(ctx context.Context, dataset string, sourceModTime time.Time) (*index.NameIndex, error) {
	var (
		version int
		modTime string
		payload []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT schema_version, source_mod_time, payload FROM name_index WHERE dataset = ?`, dataset,
	).Scan(&version, &modTime, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache row: %w", err)
	}

	if version != index.SchemaVersion {
		return nil, nil
	}
	recorded, err := time.Parse(time.RFC3339Nano, modTime)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded mod time: %w", err)
	}
	if sourceModTime.After(recorded) {
		return nil, nil
	}

	var ix index.NameIndex
	if err := json.Unmarshal(payload, &ix); err != nil {
		return nil, fmt.Errorf("decoding cached index: %w", err)
	}
	if ix.NameToIDs == nil || ix.PrimaryNames == nil || ix.Candidates == nil {
		return nil, fmt.Errorf("decoding cached index for %s: payload incomplete", dataset)
	}

	return &ix, nil
}

// Save writes ix under dataset, replacing any previous entry in a single
// transaction.
func (s *Store) Save(ctx context.Context, dataset string, ix *index.NameIndex) error {
	payload, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO name_index (dataset, schema_version, source_path, source_mod_time,
			built_at, build_duration_ns, row_count, name_count, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(dataset) DO UPDATE SET
			schema_version=excluded.schema_version, source_path=excluded.source_path,
			source_mod_time=excluded.source_mod_time, built_at=excluded.built_at,
			build_duration_ns=excluded.build_duration_ns, row_count=excluded.row_count,
			name_count=excluded.name_count, payload=excluded.payload`,
		dataset, ix.Meta.SchemaVersion, ix.Meta.Source,
		ix.Meta.SourceModTime.UTC().Format(time.RFC3339Nano),
		ix.Meta.BuiltAt.UTC().Format(time.RFC3339Nano),
		int64(ix.Meta.BuildDuration), ix.Meta.Rows, ix.Meta.Names,
		payload,
	)
	if err != nil {
		return fmt.Errorf("writing cache row: %w", err)
	}

	return tx.Commit()
}

// Entry describes a cached index without decoding its payload.
type Entry struct {
	Dataset       string
	SchemaVersion int
	SourcePath    string
	SourceModTime time.Time
	BuiltAt       time.Time
	Rows          int
	Names         int
}

// Entry returns cache row metadata for dataset, or nil when no entry exists.
func (s *Store) Entry(ctx context.Context, dataset string) (*Entry, error) {
	var (
		e       Entry
		modTime string
		builtAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT dataset, schema_version, source_path, source_mod_time, built_at, row_count, name_count
		 FROM name_index WHERE dataset = ?`, dataset,
	).Scan(&e.Dataset, &e.SchemaVersion, &e.SourcePath, &modTime, &builtAt, &e.Rows, &e.Names)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache row: %w", err)
	}

	if e.SourceModTime, err = time.Parse(time.RFC3339Nano, modTime); err != nil {
		return nil, fmt.Errorf("parsing recorded mod time: %w", err)
	}
	if e.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt); err != nil {
		return nil, fmt.Errorf("parsing build time: %w", err)
	}

	return &e, nil
}
