// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/tally/pkg/models"
)

// EntryStore is the append-only log of finalized sessions.
// It has no update or delete path.
type EntryStore struct {
	db *gorm.DB
}

// NewEntryStore creates a new entry store.
func NewEntryStore(store *Store) *EntryStore {
	return &EntryStore{db: store.DB}
}

// Append writes a finalized entry and returns its assigned ID.
// The referenced task is created with price 0 in the same transaction if needed.
func (s *EntryStore) Append(ctx context.Context, entry *models.TaskEntry) (int64, error) {
	if err := validateName(entry.TaskName); err != nil {
		return 0, err
	}
	if entry.DurationSeconds < 0 || entry.Count < 0 {
		return 0, fmt.Errorf("append entry: negative duration (%v) or count (%d)", entry.DurationSeconds, entry.Count)
	}

	row := &TaskEntry{
		TaskName:        entry.TaskName,
		StartTime:       FormatStartTime(entry.StartTime),
		DurationSeconds: entry.DurationSeconds,
		Count:           entry.Count,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := EnsureTaskExists(ctx, tx, entry.TaskName); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(row).Error
	})
	if err != nil {
		return 0, models.NewStorageError("append entry", err)
	}
	return row.ID, nil
}

// ForDay returns the entries of the calendar day containing day, in day's location.
func (s *EntryStore) ForDay(ctx context.Context, day time.Time) ([]*models.TaskEntry, error) {
	from := StartOfDay(day)
	return s.Between(ctx, from, from.AddDate(0, 0, 1))
}

// ForMonth returns the entries of a calendar month in loc.
func (s *EntryStore) ForMonth(ctx context.Context, year int, month time.Month, loc *time.Location) ([]*models.TaskEntry, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return s.Between(ctx, from, from.AddDate(0, 1, 0))
}

// Between returns entries with start in [from, to), oldest first.
func (s *EntryStore) Between(ctx context.Context, from, to time.Time) ([]*models.TaskEntry, error) {
	var rows []TaskEntry
	err := s.db.WithContext(ctx).
		Scopes(startRange(from, to), chronological()).
		Find(&rows).Error
	if err != nil {
		return nil, models.NewStorageError("query entries", err)
	}
	return s.convert(rows)
}

// Since returns entries with start at or after t, oldest first.
func (s *EntryStore) Since(ctx context.Context, t time.Time) ([]*models.TaskEntry, error) {
	var rows []TaskEntry
	err := s.db.WithContext(ctx).
		Where("start_time >= ?", FormatStartTime(t)).
		Scopes(chronological()).
		Find(&rows).Error
	if err != nil {
		return nil, models.NewStorageError("query entries", err)
	}
	return s.convert(rows)
}

// Recent returns the n most recent entries, newest first.
func (s *EntryStore) Recent(ctx context.Context, n int) ([]*models.TaskEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	var rows []TaskEntry
	err := s.db.WithContext(ctx).
		Scopes(newestFirst()).
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, models.NewStorageError("query entries", err)
	}
	return s.convert(rows)
}

// Count returns the number of entries in the log.
func (s *EntryStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&TaskEntry{}).Count(&n).Error; err != nil {
		return 0, models.NewStorageError("count entries", err)
	}
	return n, nil
}

func (s *EntryStore) convert(rows []TaskEntry) ([]*models.TaskEntry, error) {
	entries, err := toModelEntries(rows)
	if err != nil {
		return nil, models.NewStorageError("decode entries", err)
	}
	return entries, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
