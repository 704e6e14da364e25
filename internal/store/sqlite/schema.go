// Package sqlite is the persistence boundary: it mirrors a VaultIndex
// snapshot into a SQLite database so a long-running MCP server or CLI
// invocation can query the vault without re-walking and re-parsing every
// file on every call, and keeps a brute-force cosine-similarity chunk store
// alongside it for semantic search once an embedding provider is
// configured.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// Store wraps the on-disk index database for one vault.
type Store struct {
	db *sql.DB
}

// DefaultDBPath is where OpenDefault looks, mirroring the original's
// per-vault dotfile convention.
func DefaultDBPath(v *vaultpath.Vault) string {
	return filepath.Join(v.Root(), ".obsidian", "vaultdex-index.sqlite")
}

// OpenDefault opens (creating if needed) the database at DefaultDBPath(v).
func OpenDefault(v *vaultpath.Vault) (*Store, error) {
	return Open(DefaultDBPath(v))
}

// Open opens (creating if needed) the database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS meta(
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS files(
			path  TEXT PRIMARY KEY,
			kind  INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			size  INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notes(
			path                TEXT PRIMARY KEY,
			title               TEXT NOT NULL,
			aliases_json        TEXT NOT NULL,
			frontmatter_status  INTEGER NOT NULL,
			frontmatter_error   TEXT NOT NULL DEFAULT '',
			fields_json         TEXT NOT NULL,
			FOREIGN KEY(path) REFERENCES files(path) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS tags(
			tag  TEXT NOT NULL,
			path TEXT NOT NULL,
			FOREIGN KEY(path) REFERENCES files(path) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tags_tag ON tags(tag);`,
		`CREATE INDEX IF NOT EXISTS idx_tags_path ON tags(path);`,
		`CREATE TABLE IF NOT EXISTS tasks(
			path   TEXT NOT NULL,
			line   INTEGER NOT NULL,
			status INTEGER NOT NULL,
			text   TEXT NOT NULL,
			FOREIGN KEY(path) REFERENCES files(path) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_path ON tasks(path);`,
		`CREATE TABLE IF NOT EXISTS links(
			src_path     TEXT NOT NULL,
			line         INTEGER NOT NULL,
			col          INTEGER NOT NULL,
			kind         INTEGER NOT NULL,
			embed        INTEGER NOT NULL,
			target_type  INTEGER NOT NULL,
			target_ref   TEXT NOT NULL,
			subpath_type INTEGER,
			subpath      TEXT,
			display      TEXT,
			raw          TEXT NOT NULL,
			FOREIGN KEY(src_path) REFERENCES files(path) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_links_src ON links(src_path);`,
		`CREATE TABLE IF NOT EXISTS chunk_embeddings(
			path         TEXT NOT NULL,
			chunk_index  INTEGER NOT NULL,
			breadcrumb   TEXT,
			heading      TEXT,
			content_hash TEXT NOT NULL,
			embedding    BLOB NOT NULL,
			dimensions   INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL,
			UNIQUE(path, chunk_index),
			FOREIGN KEY(path) REFERENCES files(path) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunk_embeddings_path ON chunk_embeddings(path);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		_, err = s.db.ExecContext(ctx, `INSERT INTO meta(key,value) VALUES('schema_version','1')`)
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read schema version: %w", err)
	}
	return nil
}
