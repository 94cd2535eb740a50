package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rcliao/agent-graph/internal/model"
)

// SQLiteBackend stores records in a single embedded SQLite database.
// Per-record atomicity comes from the engine's statement-level
// guarantees.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens or creates a SQLite database at the given path.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	b := &SQLiteBackend{db: db}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		key        TEXT NOT NULL,
		doc        TEXT NOT NULL,
		PRIMARY KEY (collection, key)
	);
	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`
	_, err := b.db.Exec(schema)
	return err
}

func (b *SQLiteBackend) Get(ctx context.Context, collection, key string) ([]byte, error) {
	var doc []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT doc FROM records WHERE collection = ? AND key = ?`,
		collection, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", collection, key, err)
	}
	return doc, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, collection, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO records (collection, key, doc) VALUES (?, ?, ?)
		 ON CONFLICT(collection, key) DO UPDATE SET doc = excluded.doc`,
		collection, key, data)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, collection, key string) error {
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND key = ?`, collection, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *SQLiteBackend) Scan(ctx context.Context, collection string) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT key, doc FROM records WHERE collection = ? ORDER BY key`, collection)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
