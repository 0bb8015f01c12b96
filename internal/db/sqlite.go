package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient holds a read-only handle on a SQLite database file
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens path read-only. A missing file is an error rather
// than a new empty database.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		dsn = "file:" + path + "?mode=ro"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database handle
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

// quoteIdent quotes a table or index name for use in a PRAGMA
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
