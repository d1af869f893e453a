package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/scrivener/internal/apperr"
	"github.com/starford/scrivener/internal/models"
)

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS renders (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	body     TEXT NOT NULL DEFAULT '',
	checksum TEXT NOT NULL DEFAULT '',
	size     INTEGER NOT NULL DEFAULT 0,
	saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_renders_name ON renders(name, id);
`

// SQLite appends every save to a renders table.
type SQLite struct {
	conn *sql.DB
	name string
}

// OpenSQLite opens (or creates) the SQLite database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping sqlite: %w", err)
	}
	if _, err := conn.Exec(sqliteSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply sqlite schema: %w", err)
	}
	return &SQLite{conn: conn, name: DefaultName}, nil
}

// Close closes the underlying connection. Scoped views share it.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Scope returns a view recording saves under name.
func (s *SQLite) Scope(name string) Storage {
	return &SQLite{conn: s.conn, name: name}
}

// Save inserts a new row for data.
func (s *SQLite) Save(data string) error {
	r := models.NewRendering(s.name, data, time.Now().UTC())
	_, err := s.conn.Exec(`INSERT INTO renders (name, body, checksum, size, saved_at) VALUES (?, ?, ?, ?, ?)`,
		r.Name, r.Body, r.Checksum, r.Size, r.SavedAt)
	if err != nil {
		return fmt.Errorf("storage: insert render: %w", err)
	}
	return nil
}

// Latest returns the most recent rendering saved under name.
func (s *SQLite) Latest(name string) (*models.Rendering, error) {
	var r models.Rendering
	err := s.conn.QueryRow(`
		SELECT name, body, checksum, size, saved_at FROM renders
		WHERE name = ? ORDER BY id DESC LIMIT 1
	`, name).Scan(&r.Name, &r.Body, &r.Checksum, &r.Size, &r.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: latest render: %w", err)
	}
	return &r, nil
}

// History returns up to limit renderings saved under name, newest first.
// Bodies are omitted.
func (s *SQLite) History(name string, limit int) ([]models.Rendering, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(`
		SELECT name, checksum, size, saved_at FROM renders
		WHERE name = ? ORDER BY id DESC LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: render history: %w", err)
	}
	defer rows.Close()

	var out []models.Rendering
	for rows.Next() {
		var r models.Rendering
		if err := rows.Scan(&r.Name, &r.Checksum, &r.Size, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("storage: scan render: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
