// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the archive database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}
	if dbType == TypeSQLite {
		// One writer at a time; sqlite serializes writes anyway.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dbType, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the archive.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Timestamps are unix milliseconds so the same DDL works on both drivers.
// options and results hold JSON arrays.
const schema = `
-- Closed polls
CREATE TABLE IF NOT EXISTS closed_poll (
    poll_id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL,
    question TEXT NOT NULL,
    options TEXT NOT NULL,
    results TEXT NOT NULL,
    total_answered INTEGER NOT NULL DEFAULT 0,
    time_limit INTEGER NOT NULL,
    created_at BIGINT NOT NULL,
    closed_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_closed_poll_room_id ON closed_poll(room_id, closed_at);
`
