// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: tasks and the append-only entry log
		{
			ID: "001_tasks_and_entries",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Task{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&TaskEntry{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("task_entries", "tasks")
			},
		},

		// Migration 002: indexes for day/month range scans and per-task lookups
		{
			ID: "002_entry_indexes",
			Migrate: func(tx *gorm.DB) error {
				sqls := []string{
					`CREATE INDEX IF NOT EXISTS idx_task_entries_start ON task_entries(start_time)`,
					`CREATE INDEX IF NOT EXISTS idx_task_entries_task ON task_entries(task_name)`,
				}
				for _, s := range sqls {
					if err := tx.Exec(s).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				sqls := []string{
					"DROP INDEX IF EXISTS idx_task_entries_task",
					"DROP INDEX IF EXISTS idx_task_entries_start",
				}
				for _, s := range sqls {
					if err := tx.Exec(s).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},

		// Migration 003: rewrite legacy start_time text into the canonical UTC form
		{
			ID:      "003_canonical_start_times",
			Migrate: normalizeStartTimes,
			Rollback: func(tx *gorm.DB) error {
				return nil
			},
		},
	})

	return m.Migrate()
}
