// Package models contains domain models for tally.
package models

import (
	"math"
	"time"
)

// Task is a kind of work paid at a fixed price per completed unit.
type Task struct {
	Name  string  `db:"name" json:"name"`
	Price float64 `db:"price" json:"price"`
}

// ValidPrice reports whether p can be stored as a task price.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// TaskEntry is a finalized session. Entries are never updated or deleted.
type TaskEntry struct {
	ID              int64     `db:"id" json:"id"`
	TaskName        string    `db:"task_name" json:"task_name"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	DurationSeconds float64   `db:"duration_seconds" json:"duration_seconds"`
	Count           int64     `db:"count" json:"count"`
}

// Duration returns the recorded duration as a time.Duration.
func (e *TaskEntry) Duration() time.Duration {
	return time.Duration(e.DurationSeconds * float64(time.Second))
}
