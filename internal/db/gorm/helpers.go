// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// startTimeLayout is fixed width so that lexical order equals time order.
const startTimeLayout = "2006-01-02T15:04:05.000000"

// legacyLayouts are accepted when reading rows written by older versions.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// canonicalStartPattern is a LIKE pattern matching FormatStartTime output.
const canonicalStartPattern = "____-__-__T__:__:__.______+00:00"

// FormatStartTime renders t as ISO-8601 UTC with microseconds.
func FormatStartTime(t time.Time) string {
	return t.UTC().Format(startTimeLayout) + "+00:00"
}

// ParseStartTime parses a stored start_time. Timestamps without an offset are UTC.
func ParseStartTime(s string) (time.Time, error) {
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse start_time %q: unrecognised format", s)
}

// normalizeStartTimes rewrites start_time values written in a legacy layout
// into the FormatStartTime form so range scans and ordering on the text column
// match time order. Rows that cannot be parsed are left untouched.
func normalizeStartTimes(tx *gorm.DB) error {
	var rows []TaskEntry
	err := tx.Select("id", "start_time").
		Where("start_time NOT LIKE ?", canonicalStartPattern).
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("scan legacy start times: %w", err)
	}

	for _, row := range rows {
		t, err := ParseStartTime(row.StartTime)
		if err != nil {
			continue
		}
		canonical := FormatStartTime(t)
		if canonical == row.StartTime {
			continue
		}
		err = tx.Model(&TaskEntry{}).
			Where("id = ?", row.ID).
			Update("start_time", canonical).Error
		if err != nil {
			return fmt.Errorf("rewrite start_time of entry %d: %w", row.ID, err)
		}
	}
	return nil
}

// EnsureTaskExists creates a task with price 0 if it doesn't exist.
// This is shared between TaskStore and EntryStore.
func EnsureTaskExists(ctx context.Context, db *gorm.DB, name string) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Task{Name: name, Price: 0}).Error
}

// startRange filters entries whose start falls in [from, to).
func startRange(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("start_time >= ? AND start_time < ?", FormatStartTime(from), FormatStartTime(to))
	}
}

// chronological orders entries oldest first.
func chronological() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("start_time ASC, id ASC")
	}
}

// newestFirst orders entries most recent first.
func newestFirst() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("start_time DESC, id DESC")
	}
}
