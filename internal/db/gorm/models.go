// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	"github.com/thebtf/tally/pkg/models"
)

// GORM Models

// Task is a row of the tasks table.
type Task struct {
	Name  string  `gorm:"primaryKey;type:text"`
	Price float64 `gorm:"not null"`
}

func (Task) TableName() string { return "tasks" }

// TaskEntry is a row of the task_entries table.
// StartTime is ISO-8601 UTC text so that string order equals time order.
type TaskEntry struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	TaskName        string  `gorm:"type:text;not null"`
	Task            *Task   `gorm:"foreignKey:TaskName;references:Name"`
	StartTime       string  `gorm:"type:text;not null"`
	DurationSeconds float64 `gorm:"not null"`
	Count           int64   `gorm:"not null"`
}

func (TaskEntry) TableName() string { return "task_entries" }

func toModelTask(t *Task) *models.Task {
	return &models.Task{Name: t.Name, Price: t.Price}
}

func toModelTasks(tasks []Task) []*models.Task {
	result := make([]*models.Task, len(tasks))
	for i := range tasks {
		result[i] = toModelTask(&tasks[i])
	}
	return result
}

func toModelEntry(e *TaskEntry) (*models.TaskEntry, error) {
	start, err := ParseStartTime(e.StartTime)
	if err != nil {
		return nil, err
	}
	return &models.TaskEntry{
		ID:              e.ID,
		TaskName:        e.TaskName,
		StartTime:       start,
		DurationSeconds: e.DurationSeconds,
		Count:           e.Count,
	}, nil
}

func toModelEntries(entries []TaskEntry) ([]*models.TaskEntry, error) {
	result := make([]*models.TaskEntry, 0, len(entries))
	for i := range entries {
		e, err := toModelEntry(&entries[i])
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}
