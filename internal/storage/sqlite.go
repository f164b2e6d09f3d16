package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"jrewrite/internal/semantic"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS types (
			name TEXT PRIMARY KEY,
			kind INTEGER,
			origin TEXT,
			supers JSON,
			fields JSON,
			methods JSON
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			path TEXT,
			content_hash TEXT,
			fingerprint TEXT,
			changed INTEGER,
			edits INTEGER,
			passes JSON,
			recorded_at TEXT,
			PRIMARY KEY (path, fingerprint)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_types_origin ON types(origin);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- TypeStore Implementation ---

func (s *SQLiteStore) SaveTypes(ctx context.Context, types []semantic.TypeInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The stored index is a snapshot of the last run.
	if _, err := tx.ExecContext(ctx, "DELETE FROM types"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO types (name, kind, origin, supers, fields, methods)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind=excluded.kind,
			origin=excluded.origin,
			supers=excluded.supers,
			fields=excluded.fields,
			methods=excluded.methods
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, info := range types {
		supers, err := json.Marshal(info.Supers)
		if err != nil {
			return fmt.Errorf("failed to encode supers of %s: %w", info.Name, err)
		}
		fields, err := json.Marshal(info.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode fields of %s: %w", info.Name, err)
		}
		methods, err := json.Marshal(info.Methods)
		if err != nil {
			return fmt.Errorf("failed to encode methods of %s: %w", info.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, info.Name, int(info.Kind), info.Origin, supers, fields, methods); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadTypes(ctx context.Context) ([]semantic.TypeInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, kind, origin, supers, fields, methods FROM types ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query types: %w", err)
	}
	defer rows.Close()
	return scanTypes(rows)
}

func (s *SQLiteStore) FindTypesByFile(ctx context.Context, path string) ([]semantic.TypeInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, kind, origin, supers, fields, methods FROM types WHERE origin = ? ORDER BY name", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTypes(rows)
}

func scanTypes(rows *sql.Rows) ([]semantic.TypeInfo, error) {
	var out []semantic.TypeInfo
	for rows.Next() {
		var info semantic.TypeInfo
		var kind int
		var supers, fields, methods []byte
		if err := rows.Scan(&info.Name, &kind, &info.Origin, &supers, &fields, &methods); err != nil {
			return nil, fmt.Errorf("failed to scan type: %w", err)
		}
		info.Kind = semantic.TypeKind(kind)
		if err := decodeColumn(supers, &info.Supers); err != nil {
			return nil, fmt.Errorf("failed to decode supers of %s: %w", info.Name, err)
		}
		if err := decodeColumn(fields, &info.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields of %s: %w", info.Name, err)
		}
		if err := decodeColumn(methods, &info.Methods); err != nil {
			return nil, fmt.Errorf("failed to decode methods of %s: %w", info.Name, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func decodeColumn(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// --- RunCache Implementation ---

func (s *SQLiteStore) RecordRun(ctx context.Context, rec RunRecord) error {
	passes, err := json.Marshal(rec.Passes)
	if err != nil {
		return err
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (path, content_hash, fingerprint, changed, edits, passes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path, fingerprint) DO UPDATE SET
			content_hash=excluded.content_hash,
			changed=excluded.changed,
			edits=excluded.edits,
			passes=excluded.passes,
			recorded_at=excluded.recorded_at
	`, rec.Path, rec.ContentHash, rec.Fingerprint, rec.Changed, rec.Edits, passes, rec.RecordedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// LookupRun returns nil without error when nothing matches.
func (s *SQLiteStore) LookupRun(ctx context.Context, path, contentHash, fingerprint string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, content_hash, fingerprint, changed, edits, passes, recorded_at
		FROM runs WHERE path = ? AND fingerprint = ? AND content_hash = ?
	`, path, fingerprint, contentHash)

	var rec RunRecord
	var passes []byte
	var recorded string
	if err := row.Scan(&rec.Path, &rec.ContentHash, &rec.Fingerprint, &rec.Changed, &rec.Edits, &passes, &recorded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := decodeColumn(passes, &rec.Passes); err != nil {
		return nil, fmt.Errorf("failed to decode passes: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
		rec.RecordedAt = t
	}
	return &rec, nil
}

func (s *SQLiteStore) DeleteRuns(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM runs WHERE path = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}
