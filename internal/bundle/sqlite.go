package bundle

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable Store backed by a SQLite database. File contents
// are serialized as a JSON object per bundle row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bundles (
			id              TEXT PRIMARY KEY,
			created_at      DATETIME NOT NULL,
			summary         TEXT NOT NULL DEFAULT '',
			files           TEXT NOT NULL DEFAULT '{}',
			component_path  TEXT NOT NULL DEFAULT '',
			stylesheet_path TEXT NOT NULL DEFAULT ''
		);
	`)
	return err
}

// Put inserts a bundle. Bundles are value-like, so an existing row with the
// same ID is never overwritten.
func (s *SQLiteStore) Put(b *Bundle) error {
	files, err := json.Marshal(b.Files)
	if err != nil {
		return fmt.Errorf("encoding files: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO bundles (id, created_at, summary, files, component_path, stylesheet_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.CreatedAt, b.Summary, string(files), b.ComponentPath, b.StylesheetPath,
	)
	return err
}

// Get retrieves a bundle by ID, or ErrNotFound.
func (s *SQLiteStore) Get(id string) (*Bundle, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, summary, files, component_path, stylesheet_path
		 FROM bundles WHERE id = ?`, id,
	)

	b := &Bundle{}
	var files string
	err := row.Scan(&b.ID, &b.CreatedAt, &b.Summary, &files, &b.ComponentPath, &b.StylesheetPath)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(files), &b.Files); err != nil {
		return nil, fmt.Errorf("decoding files: %w", err)
	}
	return b, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
