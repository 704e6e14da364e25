package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/parse"
)

// Counts reports the row count of every table, mainly for diagnostics and
// tests asserting a write actually landed.
type Counts struct {
	Files int64
	Notes int64
	Tags  int64
	Tasks int64
	Links int64
}

// Counts queries the current row counts of every table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	rows := []struct {
		table string
		dest  *int64
	}{
		{"files", &c.Files},
		{"notes", &c.Notes},
		{"tags", &c.Tags},
		{"tasks", &c.Tasks},
		{"links", &c.Links},
	}
	for _, r := range rows {
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)).Scan(r.dest); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", r.table, err)
		}
	}
	return c, nil
}

// WriteFullIndex wipes every table and rewrites it from the given index
// snapshot in one transaction, used the first time a vault is opened (or
// whenever the caller wants to discard the persisted cache and start over).
func (s *Store) WriteFullIndex(ctx context.Context, idx *index.VaultIndex) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"links", "tasks", "tags", "notes", "files"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, f := range idx.AllFiles() {
		note, _ := idx.Note(f.Path)
		if err := upsertPathTx(ctx, tx, f, note); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}

	return tx.Commit()
}

// UpsertPath writes or rewrites the persisted rows for a single path,
// mirroring the in-memory index's post-upsert state. Callers look up the
// FileMeta/NoteMeta themselves (via idx.File/idx.Note) after applying an
// Upsert so the two stores never race against each other mid-update.
func (s *Store) UpsertPath(ctx context.Context, file index.FileMeta, note index.NoteMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := upsertPathTx(ctx, tx, file, note); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertPathTx(ctx context.Context, tx *sql.Tx, file index.FileMeta, note index.NoteMeta) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO files(path, kind, mtime, size) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET kind=excluded.kind, mtime=excluded.mtime, size=excluded.size`,
		file.Path, int(file.Kind), file.MTime.UnixNano(), file.Size)
	if err != nil {
		return fmt.Errorf("upsert file row: %w", err)
	}

	for _, table := range []string{"notes", "tags", "tasks", "links"} {
		col := "path"
		if table == "links" {
			col = "src_path"
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, col), file.Path); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, file.Path, err)
		}
	}

	if file.Kind != index.FileMarkdown {
		return nil
	}

	aliasesJSON, err := json.Marshal(note.Aliases)
	if err != nil {
		return err
	}
	fieldsJSON, err := json.Marshal(fieldMapToAny(note.Fields))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes(path, title, aliases_json, frontmatter_status, frontmatter_error, fields_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		file.Path, note.Title, string(aliasesJSON), int(note.Frontmatter.Kind), note.Frontmatter.Error, string(fieldsJSON))
	if err != nil {
		return fmt.Errorf("insert note row: %w", err)
	}

	for _, tag := range note.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags(tag, path) VALUES (?, ?)`, tag, file.Path); err != nil {
			return fmt.Errorf("insert tag row: %w", err)
		}
	}

	for _, t := range note.Tasks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(path, line, status, text) VALUES (?, ?, ?, ?)`,
			file.Path, t.Line, int(t.Status), t.Text); err != nil {
			return fmt.Errorf("insert task row: %w", err)
		}
	}

	for _, l := range note.LinkOccurrences {
		if err := insertLinkRow(ctx, tx, file.Path, l); err != nil {
			return err
		}
	}

	return nil
}

func insertLinkRow(ctx context.Context, tx *sql.Tx, srcPath string, l parse.Link) error {
	targetRef := ""
	switch l.Target.Kind {
	case parse.TargetInternal:
		targetRef = l.Target.Reference
	case parse.TargetExternalURL:
		targetRef = l.Target.URL
	case parse.TargetObsidianURI:
		targetRef = l.Target.Raw
	}

	var subpathType sql.NullInt64
	var subpath sql.NullString
	if l.Subpath.Kind != parse.SubpathNone {
		subpathType = sql.NullInt64{Int64: int64(l.Subpath.Kind), Valid: true}
		subpath = sql.NullString{String: l.Subpath.Value, Valid: true}
	}
	var display sql.NullString
	if l.Display != "" {
		display = sql.NullString{String: l.Display, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO links(src_path, line, col, kind, embed, target_type, target_ref, subpath_type, subpath, display, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		srcPath, l.Location.Line, l.Location.Column, int(l.Kind), l.Embed, int(l.Target.Kind), targetRef,
		subpathType, subpath, display, l.Raw)
	if err != nil {
		return fmt.Errorf("insert link row: %w", err)
	}
	return nil
}

// RemovePath deletes every row associated with path across all tables, in
// one transaction. Foreign keys cascade notes/tags/tasks/links off of the
// files row, but the delete is explicit here rather than relying solely on
// ON DELETE CASCADE so the operation is correct even if a caller opens the
// database without PRAGMA foreign_keys enabled.
func (s *Store) RemovePath(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM links WHERE src_path = ?",
		"DELETE FROM tasks WHERE path = ?",
		"DELETE FROM tags WHERE path = ?",
		"DELETE FROM notes WHERE path = ?",
		"DELETE FROM chunk_embeddings WHERE path = ?",
		"DELETE FROM files WHERE path = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, path); err != nil {
			return fmt.Errorf("remove path: %w", err)
		}
	}

	return tx.Commit()
}
