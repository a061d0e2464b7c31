// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// testStore opens a migrated SQLite store in a temporary directory.
func testStore(t *testing.T) (*Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(Config{
		Path:     dbPath,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, dbPath
}

func TestNewStore(t *testing.T) {
	store, dbPath := testStore(t)

	if err := store.Ping(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if store.Driver() != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", store.Driver())
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	var journalMode string
	if err := store.DB.Raw("PRAGMA journal_mode").Scan(&journalMode).Error; err != nil {
		t.Fatalf("query journal_mode failed: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected WAL mode, got %q", journalMode)
	}

	var foreignKeys int
	if err := store.DB.Raw("PRAGMA foreign_keys").Scan(&foreignKeys).Error; err != nil {
		t.Fatalf("query foreign_keys failed: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("expected foreign keys enabled, got %d", foreignKeys)
	}

	for _, table := range []string{"tasks", "task_entries"} {
		if !store.DB.Migrator().HasTable(table) {
			t.Errorf("table %q does not exist", table)
		}
	}
	for _, index := range []string{"idx_task_entries_start", "idx_task_entries_task"} {
		if !store.DB.Migrator().HasIndex(&TaskEntry{}, index) {
			t.Errorf("index %q does not exist", index)
		}
	}
	for _, column := range []string{"id", "task_name", "start_time", "duration_seconds", "count"} {
		if !store.DB.Migrator().HasColumn(&TaskEntry{}, column) {
			t.Errorf("column task_entries.%s does not exist", column)
		}
	}
}

func TestMigrationIdempotency(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := Config{Path: dbPath, LogLevel: logger.Silent}

	store1, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore (first) failed: %v", err)
	}
	if err := store1.DB.Exec("INSERT INTO tasks (name, price) VALUES ('kept', 1.5)").Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	store1.Close()

	store2, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore (second) failed: %v", err)
	}
	defer store2.Close()

	var count int64
	store2.DB.Model(&Task{}).Count(&count)
	if count != 1 {
		t.Errorf("expected seeded task to survive, got %d tasks", count)
	}
}

func TestMigrationNormalizesStartTimes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := Config{Path: dbPath, LogLevel: logger.Silent}

	store1, err := NewStore(cfg)
	require.NoError(t, err)
	require.NoError(t, store1.DB.Exec("INSERT INTO tasks (name, price) VALUES ('legacy', 1)").Error)
	require.NoError(t, store1.DB.Exec(
		"INSERT INTO task_entries (task_name, start_time, duration_seconds, count) VALUES ('legacy', '2024-07-01 10:00:00', 60, 1)",
	).Error)
	require.NoError(t, store1.DB.Exec("DELETE FROM migrations WHERE id = ?", "003_canonical_start_times").Error)
	require.NoError(t, store1.Close())

	store2, err := NewStore(cfg)
	require.NoError(t, err)
	defer store2.Close()

	var stored string
	require.NoError(t, store2.DB.Raw("SELECT start_time FROM task_entries").Scan(&stored).Error)
	require.Equal(t, "2024-07-01T10:00:00.000000+00:00", stored)
}

func TestNewStore_Errors(t *testing.T) {
	_, err := NewStore(Config{Driver: "mysql"})
	require.Error(t, err)

	_, err = NewStore(Config{Driver: DriverSQLite})
	require.Error(t, err)
}
