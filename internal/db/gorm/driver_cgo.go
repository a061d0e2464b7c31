//go:build cgo

// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
)

const sqliteDriverName = "sqlite3"

// sqliteDSN enables foreign keys and a busy timeout on every connection.
func sqliteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
