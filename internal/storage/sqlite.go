package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"unbarrel/internal/index"
)

// SQLiteStore persists a scanned export index between runs, so resolve
// and rewrite invocations can skip the crawl.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS export_index (
		name TEXT PRIMARY KEY,
		file TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// SaveIndex replaces the stored index with idx atomically.
func (s *SQLiteStore) SaveIndex(ctx context.Context, idx *index.ExportIndex) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM export_index`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO export_index (name, file) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for name, file := range idx.Entries {
		if _, err := stmt.ExecContext(ctx, name, file); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('root', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, idx.Root); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadIndex reads the stored index back. A database without a stored
// root reports an error rather than an empty index, so a forgotten
// scan surfaces immediately.
func (s *SQLiteStore) LoadIndex(ctx context.Context) (*index.ExportIndex, error) {
	var root string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'root'`).Scan(&root)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no scanned index in database; run scan first")
	}
	if err != nil {
		return nil, err
	}

	idx := &index.ExportIndex{
		Root:    root,
		Entries: make(map[string]string),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, file FROM export_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name, file string
		if err := rows.Scan(&name, &file); err != nil {
			return nil, err
		}
		idx.Entries[name] = file
	}
	return idx, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
