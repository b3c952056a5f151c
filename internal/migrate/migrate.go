// Package migrate applies the SQL files under migrations/ to PostgreSQL and
// records them in schema_migrations.
package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	dropAllFile      = "000_drop_all.sql"
	consolidatedFile = "000_consolidated.sql"
	upSuffix         = ".up.sql"
)

// DB is the subset of pgxpool.Pool the migrator uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Status is the state of one migration.
type Status struct {
	Name    string
	Applied bool
}

// Migrator runs migrations read from files.
type Migrator struct {
	db    DB
	files fs.FS
}

// New は Migrator を生成する
func New(db DB, files fs.FS) *Migrator {
	return &Migrator{db: db, files: files}
}

// UpFiles returns the *.up.sql migration names, sorted, without the suffix.
func (m *Migrator) UpFiles() ([]string, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), upSuffix) {
			names = append(names, strings.TrimSuffix(e.Name(), upSuffix))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Migrator) ensureSchemaMigrations(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

func (m *Migrator) isApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists)
	return exists, err
}

func (m *Migrator) execFile(ctx context.Context, filename string) error {
	sql, err := fs.ReadFile(m.files, filename)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if _, err := m.db.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s: %w", filename, err)
	}
	return nil
}

// Up applies every pending migration in order and returns the applied names.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureSchemaMigrations(ctx); err != nil {
		return nil, err
	}
	names, err := m.UpFiles()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		done, err := m.isApplied(ctx, name)
		if err != nil {
			return applied, fmt.Errorf("check %s: %w", name, err)
		}
		if done {
			continue
		}
		if err := m.execFile(ctx, name+upSuffix); err != nil {
			return applied, err
		}
		if _, err := m.db.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return applied, fmt.Errorf("record %s: %w", name, err)
		}
		applied = append(applied, name)
		slog.Info("migration completed", "migration", name)
	}
	return applied, nil
}

// DropAll drops every table, schema_migrations included.
func (m *Migrator) DropAll(ctx context.Context) error {
	return m.execFile(ctx, dropAllFile)
}

// ApplyConsolidated creates the schema from the consolidated file and marks
// every migration as applied. It returns how many were marked.
func (m *Migrator) ApplyConsolidated(ctx context.Context) (int, error) {
	if err := m.execFile(ctx, consolidatedFile); err != nil {
		return 0, err
	}
	if err := m.ensureSchemaMigrations(ctx); err != nil {
		return 0, err
	}
	names, err := m.UpFiles()
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		if _, err := m.db.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			return 0, fmt.Errorf("mark %s: %w", name, err)
		}
	}
	return len(names), nil
}

// Status reports which migrations have been applied.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.ensureSchemaMigrations(ctx); err != nil {
		return nil, err
	}
	names, err := m.UpFiles()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(names))
	for _, name := range names {
		done, err := m.isApplied(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Status{Name: name, Applied: done})
	}
	return out, nil
}
