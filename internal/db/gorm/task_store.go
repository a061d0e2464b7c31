// Package gorm provides GORM-based database operations for tally.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/tally/pkg/models"
)

// TaskStore is the task registry: task name to fixed payout.
// Tasks are never deleted.
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore creates a new task store.
func NewTaskStore(store *Store) *TaskStore {
	return &TaskStore{db: store.DB}
}

// UpsertPrice sets the payout for name, creating the task if absent.
func (s *TaskStore) UpsertPrice(ctx context.Context, name string, price float64) (*models.Task, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !models.ValidPrice(price) {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidPrice, price)
	}

	task := &Task{Name: name, Price: price}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"price"}),
		}).
		Create(task).Error
	if err != nil {
		return nil, models.NewStorageError("upsert price", err)
	}
	return toModelTask(task), nil
}

// Get returns the task, or nil when the name is unknown.
func (s *TaskStore) Get(ctx context.Context, name string) (*models.Task, error) {
	var task Task
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("get task", err)
	}
	return toModelTask(&task), nil
}

// GetOrCreate returns the task, creating it with price 0 if absent.
func (s *TaskStore) GetOrCreate(ctx context.Context, name string) (*models.Task, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := EnsureTaskExists(ctx, s.db, name); err != nil {
		return nil, models.NewStorageError("create task", err)
	}
	task, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, models.NewStorageError("create task", fmt.Errorf("task %q missing after insert", name))
	}
	return task, nil
}

// List returns all tasks ordered by name.
func (s *TaskStore) List(ctx context.Context) ([]*models.Task, error) {
	var tasks []Task
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tasks).Error; err != nil {
		return nil, models.NewStorageError("list tasks", err)
	}
	return toModelTasks(tasks), nil
}

// Prices returns the current price of every known task.
func (s *TaskStore) Prices(ctx context.Context) (map[string]float64, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		prices[t.Name] = t.Price
	}
	return prices, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.ErrInvalidTaskName
	}
	return nil
}
