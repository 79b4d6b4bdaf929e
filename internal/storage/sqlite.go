// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// NewSQLiteStore opens (creating if needed) a SQLite article store.
func NewSQLiteStore(path, table string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	if table == "" {
		table = "articles"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &sqlStore{
		db:          db,
		table:       table,
		placeholder: questionPlaceholder,
	}
	store.upsertSQL = fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(articleColumns, ", "),
		placeholderList(questionPlaceholder, 1, len(articleColumns)))

	if err := createSQLiteSchema(db, table); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func createSQLiteSchema(db *sql.DB, table string) error {
	defs := make([]string, len(articleColumns))
	for i, column := range articleColumns {
		if column == "url" {
			defs[i] = "url TEXT PRIMARY KEY"
		} else {
			defs[i] = column + " TEXT NOT NULL DEFAULT ''"
		}
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %q: %w", table, err)
	}
	return nil
}
