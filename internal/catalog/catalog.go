// Package catalog records completed backups in a SQLite database so the
// list and restore commands can answer questions about history without
// re-reading every archive.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS backups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    profile TEXT NOT NULL,
    version TEXT NOT NULL,
    archive_path TEXT NOT NULL,
    size_bytes INTEGER,
    component_count INTEGER,
    package_count INTEGER,
    notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_backups_profile ON backups(profile);
CREATE INDEX IF NOT EXISTS idx_backups_created ON backups(created_at);
`

// Record is one catalog row describing a finished backup.
type Record struct {
	ID             int64
	CreatedAt      time.Time
	Profile        string
	Version        string
	ArchivePath    string
	SizeBytes      int64
	ComponentCount int
	PackageCount   int
	Notes          string
}

// Catalog wraps the backup history database.
type Catalog struct {
	db *sql.DB
}

// New opens the catalog at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Insert records a completed backup and returns its row id.
func (c *Catalog) Insert(rec Record) (int64, error) {
	res, err := c.db.Exec(`
		INSERT INTO backups (created_at, profile, version, archive_path, size_bytes, component_count, package_count, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt, rec.Profile, rec.Version, rec.ArchivePath,
		rec.SizeBytes, rec.ComponentCount, rec.PackageCount, rec.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert backup: %w", err)
	}
	return res.LastInsertId()
}

// List returns records newest first, optionally filtered by profile.
func (c *Catalog) List(profile string) ([]Record, error) {
	query := `
		SELECT id, created_at, profile, version, archive_path, size_bytes, component_count, package_count, notes
		FROM backups`
	var args []any
	if profile != "" {
		query += " WHERE profile = ?"
		args = append(args, profile)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Profile, &rec.Version, &rec.ArchivePath,
			&rec.SizeBytes, &rec.ComponentCount, &rec.PackageCount, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Latest returns the most recent record for a profile, or nil when the
// profile has no history.
func (c *Catalog) Latest(profile string) (*Record, error) {
	records, err := c.List(profile)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
