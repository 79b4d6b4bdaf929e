// internal/storage/mysql.go
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// NewMySQLStore opens a MySQL article store.
func NewMySQLStore(dsn, table string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL DSN is required")
	}
	if table == "" {
		table = "articles"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &sqlStore{
		db:          db,
		table:       table,
		placeholder: questionPlaceholder,
	}
	store.upsertSQL = buildMySQLUpsert(table)

	if err := createMySQLSchema(db, table); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func buildMySQLUpsert(table string) string {
	assignments := make([]string, 0, len(articleColumns)-1)
	for _, column := range articleColumns[1:] {
		assignments = append(assignments, fmt.Sprintf("%s = VALUES(%s)", column, column))
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		table,
		strings.Join(articleColumns, ", "),
		placeholderList(questionPlaceholder, 1, len(articleColumns)),
		strings.Join(assignments, ", "),
	)
}

func createMySQLSchema(db *sql.DB, table string) error {
	defs := make([]string, len(articleColumns))
	for i, column := range articleColumns {
		if column == "url" {
			// VARCHAR key; TEXT cannot be a primary key in MySQL.
			defs[i] = "url VARCHAR(768) PRIMARY KEY"
		} else {
			defs[i] = column + " TEXT NOT NULL"
		}
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %q: %w", table, err)
	}
	return nil
}
