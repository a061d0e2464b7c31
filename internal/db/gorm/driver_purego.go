//go:build !cgo

// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	_ "modernc.org/sqlite" // registers "sqlite"
)

const sqliteDriverName = "sqlite"

// sqliteDSN enables foreign keys and a busy timeout on every connection.
func sqliteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
