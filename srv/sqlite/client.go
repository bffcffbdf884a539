package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	zlog "github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	zlog.Debug().Msg("Initializing SQLite client")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	zlog.Debug().Msg("SQLite client initialized successfully")
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	zlog.Debug().Msg("Closing SQLite connection")
	return c.db.Close()
}

func (c *Client) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	zlog.Trace().Str("query", query).Msg("Executing SQLite query")
	return c.db.ExecContext(ctx, query, args...)
}

func (c *Client) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	zlog.Trace().Str("query", query).Msg("Executing SQLite query")
	return c.db.QueryContext(ctx, query, args...)
}
