// internal/storage/postgresql.go
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// NewPostgresStore opens a PostgreSQL article store.
func NewPostgresStore(dsn, table string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQL DSN is required")
	}
	if table == "" {
		table = "articles"
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &sqlStore{
		db:          db,
		table:       table,
		placeholder: dollarPlaceholder,
	}
	store.upsertSQL = buildPostgresUpsert(table)

	if err := createPostgresSchema(db, table); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func buildPostgresUpsert(table string) string {
	assignments := make([]string, 0, len(articleColumns)-1)
	for _, column := range articleColumns[1:] {
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (url) DO UPDATE SET %s",
		table,
		strings.Join(articleColumns, ", "),
		placeholderList(dollarPlaceholder, 1, len(articleColumns)),
		strings.Join(assignments, ", "),
	)
}

func createPostgresSchema(db *sql.DB, table string) error {
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
