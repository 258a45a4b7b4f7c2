package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fluxline/internal/models"
)

// SQLiteGateway implements Gateway on a single row of a SQLite table.
type SQLiteGateway struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// NewSQLiteGateway opens the database at dbPath and prepares the slot table.
func NewSQLiteGateway(dbPath, key string) (*SQLiteGateway, error) {
	if key == "" {
		key = DefaultKey
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if err := migrateSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteGateway{db: db, key: key, now: time.Now}, nil
}

// Close closes the database connection.
func (g *SQLiteGateway) Close() error {
	return g.db.Close()
}

// Load returns the slot contents, or nil if nothing was saved yet.
func (g *SQLiteGateway) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := g.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, g.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", g.key, err)
	}
	return value, nil
}

// Save writes the full board document.
func (g *SQLiteGateway) Save(ctx context.Context, state models.State) error {
	savedAt := g.now()
	data, err := Encode(state, savedAt)
	if err != nil {
		return err
	}
	return g.put(ctx, data, savedAt)
}

// Put overwrites the slot with raw bytes, bypassing Encode. It seeds legacy
// or damaged documents for tests and manual repair.
func (g *SQLiteGateway) Put(ctx context.Context, data []byte) error {
	return g.put(ctx, data, g.now())
}

func (g *SQLiteGateway) put(ctx context.Context, data []byte, savedAt time.Time) error {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, saved_at = excluded.saved_at
	`, g.key, data, savedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", g.key, err)
	}
	return nil
}

// Clear empties the slot, so the next Open takes the first-run path.
func (g *SQLiteGateway) Clear(ctx context.Context) error {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = ?`, g.key); err != nil {
		return fmt.Errorf("failed to clear slot %s: %w", g.key, err)
	}
	return nil
}
