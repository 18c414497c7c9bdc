package instance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/modsmith/modsmith/pkg/mod"
)

const schema = `
CREATE TABLE IF NOT EXISTS installed (
    instance_dir TEXT NOT NULL,
    kind         TEXT NOT NULL,
    name         TEXT NOT NULL,
    provider     TEXT NOT NULL,
    project_id   TEXT NOT NULL,
    version_id   TEXT NOT NULL,
    file_name    TEXT NOT NULL,
    indexed      BOOLEAN NOT NULL,
    installed_at TIMESTAMP NOT NULL,
    PRIMARY KEY (instance_dir, kind, name)
);

CREATE INDEX IF NOT EXISTS idx_installed_instance ON installed(instance_dir);
`

// Record is one row of the installed index.
type Record struct {
	InstanceDir string
	Kind        mod.Kind
	Name        string
	Provider    mod.Provider
	ProjectID   string
	VersionID   string
	FileName    string
	Indexed     bool
	InstalledAt time.Time
}

// Store is the persistent index of installed resources, one row per
// (instance, kind, name). Re-installing a resource replaces its row.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the index at dbPath.
// Use ":memory:" for throwaway stores in tests.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open installed index: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the index.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordTasks writes the committed download tasks for an instance.
// Existing rows for the same (kind, name) are replaced.
func (s *Store) RecordTasks(ctx context.Context, instanceDir string, tasks []*mod.DownloadTask, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const q = `INSERT OR REPLACE INTO installed
		(instance_dir, kind, name, provider, project_id, version_id, file_name, indexed, installed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, t := range tasks {
		_, err := tx.ExecContext(ctx, q,
			instanceDir, string(t.Pack.Kind), t.Pack.Name, string(t.Pack.Provider),
			t.Pack.ID, t.Version.ID, t.FileName(), t.Indexed, at.UTC())
		if err != nil {
			return fmt.Errorf("failed to record %s: %w", t.Pack.Name, err)
		}
	}
	return tx.Commit()
}

// Installed lists the index rows for an instance, ordered by kind then name.
func (s *Store) Installed(ctx context.Context, instanceDir string) ([]Record, error) {
	const q = `SELECT instance_dir, kind, name, provider, project_id, version_id,
		file_name, indexed, installed_at
		FROM installed WHERE instance_dir = ? ORDER BY kind, name COLLATE NOCASE`
	rows, err := s.db.QueryContext(ctx, q, instanceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to query installed index: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var kind, provider string
		if err := rows.Scan(&r.InstanceDir, &kind, &r.Name, &provider,
			&r.ProjectID, &r.VersionID, &r.FileName, &r.Indexed, &r.InstalledAt); err != nil {
			return nil, fmt.Errorf("failed to scan installed row: %w", err)
		}
		r.Kind = mod.Kind(kind)
		r.Provider = mod.Provider(provider)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Forget drops the row for a resource name, if present.
func (s *Store) Forget(ctx context.Context, instanceDir string, kind mod.Kind, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM installed WHERE instance_dir = ? AND kind = ? AND name = ?`,
		instanceDir, string(kind), name)
	if err != nil {
		return fmt.Errorf("failed to forget %s: %w", name, err)
	}
	return nil
}
