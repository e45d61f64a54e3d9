package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	options "github.com/goliatone/go-appoptions"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const createOptionValuesSQL = `
CREATE TABLE IF NOT EXISTS option_values (
    section    TEXT NOT NULL,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (section, name)
)`

// SQLiteStore implements Store with SQLite, one row per option value.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// SQLiteWithLogger attaches a logger; save/load activity is logged at debug.
func SQLiteWithLogger(logger zerolog.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		s.logger = logger
	}
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(createOptionValuesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create option_values: %w", err)
	}

	store := &SQLiteStore{db: db, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// NewSQLiteStoreFromDB wraps an existing connection. The option_values table
// must already exist.
func NewSQLiteStoreFromDB(db *sql.DB, opts ...SQLiteOption) *SQLiteStore {
	store := &SQLiteStore{db: db, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the record for ref.
func (s *SQLiteStore) Save(ctx context.Context, ref Ref, record Record) error {
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO option_values (section, name, type, value, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (section, name) DO UPDATE SET
			type = excluded.type,
			value = excluded.value,
			updated_at = excluded.updated_at`,
		ref.Section, ref.Name, string(record.Type), string(record.Value), record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", ref.Section, ref.Name, err)
	}
	s.logger.Debug().
		Str("section", ref.Section).
		Str("name", ref.Name).
		Str("type", string(record.Type)).
		Msg("option value saved")
	return nil
}

// Load returns the record for ref and whether one exists.
func (s *SQLiteStore) Load(ctx context.Context, ref Ref) (Record, bool, error) {
	var record Record
	var kind, value string
	err := s.db.QueryRowContext(ctx, `
		SELECT type, value, updated_at FROM option_values
		WHERE section = ? AND name = ?`,
		ref.Section, ref.Name).Scan(&kind, &value, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("load %s/%s: %w", ref.Section, ref.Name, err)
	}
	record.Type = options.StorageType(kind)
	record.Value = json.RawMessage(value)
	return record, true, nil
}

// Delete removes the record for ref; missing refs are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, ref Ref) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM option_values WHERE section = ? AND name = ?`,
		ref.Section, ref.Name)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", ref.Section, ref.Name, err)
	}
	return nil
}

// List returns the refs of every stored record ordered by section and name.
func (s *SQLiteStore) List(ctx context.Context) ([]Ref, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, name FROM option_values ORDER BY section, name`)
	if err != nil {
		return nil, fmt.Errorf("list option values: %w", err)
	}
	defer rows.Close()

	var refs []Ref
	for rows.Next() {
		var ref Ref
		if err := rows.Scan(&ref.Section, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
