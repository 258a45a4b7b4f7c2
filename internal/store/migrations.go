package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaStep is one embedded SQL file, named <version>_<label>.sql.
type schemaStep struct {
	version int
	label   string
	body    string
}

func (s schemaStep) String() string {
	return fmt.Sprintf("%03d_%s", s.version, s.label)
}

// schemaMigrator brings a slot database up to the embedded schema.
type schemaMigrator struct {
	db    *sql.DB
	steps []schemaStep
}

func newSchemaMigrator(db *sql.DB, files fs.FS) (*schemaMigrator, error) {
	steps, err := readSchemaSteps(files)
	if err != nil {
		return nil, err
	}
	return &schemaMigrator{db: db, steps: steps}, nil
}

// migrateSchema applies every embedded step the database has not recorded.
func migrateSchema(ctx context.Context, db *sql.DB) error {
	m, err := newSchemaMigrator(db, migrationsFS)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}

// Up records the baseline for untracked slot tables, then applies pending
// steps in version order, each in its own transaction.
func (m *schemaMigrator) Up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	done, err := m.recorded(ctx)
	if err != nil {
		return err
	}
	if len(done) == 0 {
		if err := m.adoptUntracked(ctx); err != nil {
			return err
		}
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	for _, step := range pending {
		if err := m.apply(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// Pending lists the steps the database has not recorded yet.
func (m *schemaMigrator) Pending(ctx context.Context) ([]schemaStep, error) {
	done, err := m.recorded(ctx)
	if err != nil {
		return nil, err
	}
	var pending []schemaStep
	for _, step := range m.steps {
		if !done[step.version] {
			pending = append(pending, step)
		}
	}
	return pending, nil
}

func (m *schemaMigrator) recorded(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan schema version: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

// adoptUntracked handles databases whose kv_slots table predates
// schema_migrations: the first step is recorded without running it so
// existing slots survive.
func (m *schemaMigrator) adoptUntracked(ctx context.Context) error {
	var name string
	err := m.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_slots'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) || len(m.steps) == 0 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look for an untracked slot table: %w", err)
	}

	base := m.steps[0]
	if err := m.record(ctx, m.db, base); err != nil {
		return fmt.Errorf("failed to adopt slot table as %s: %w", base, err)
	}
	return nil
}

func (m *schemaMigrator) apply(ctx context.Context, step schemaStep) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %s: %w", step, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, step.body); err != nil {
		return fmt.Errorf("migration %s failed: %w", step, err)
	}
	if err := m.record(ctx, tx, step); err != nil {
		return fmt.Errorf("migration %s not recorded: %w", step, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %s not committed: %w", step, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (m *schemaMigrator) record(ctx context.Context, db execer, step schemaStep) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, step.version, step.label)
	return err
}

func readSchemaSteps(files fs.FS) ([]schemaStep, error) {
	names, err := fs.Glob(files, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	steps := make([]schemaStep, 0, len(names))
	for _, name := range names {
		step, err := parseSchemaStepName(path.Base(name))
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		step.body = string(body)
		steps = append(steps, step)
	}

	slices.SortFunc(steps, func(a, b schemaStep) int { return a.version - b.version })
	for i := 1; i < len(steps); i++ {
		if steps[i].version == steps[i-1].version {
			return nil, fmt.Errorf("migrations %s and %s share version %d", steps[i-1], steps[i], steps[i].version)
		}
	}
	return steps, nil
}

func parseSchemaStepName(filename string) (schemaStep, error) {
	base, ok := strings.CutSuffix(filename, ".sql")
	if !ok {
		return schemaStep{}, fmt.Errorf("migration %q is not a .sql file", filename)
	}
	num, label, ok := strings.Cut(base, "_")
	if !ok || label == "" {
		return schemaStep{}, fmt.Errorf("migration %q: want <version>_<label>.sql", filename)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return schemaStep{}, fmt.Errorf("migration %q: bad version %q", filename, num)
	}
	return schemaStep{version: version, label: label}, nil
}
