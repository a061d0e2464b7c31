// Package models contains domain models for tally.
package models

import (
	"errors"
	"fmt"
)

// Error kinds shared by the registry, the session engine and the dispatcher.
var (
	ErrInvalidPrice      = errors.New("invalid price: must be a non-negative number")
	ErrInvalidTaskName   = errors.New("invalid task name")
	ErrNoActiveTask      = errors.New("no active task, use 'switch <task>' first")
	ErrAlreadyRunning    = errors.New("timer already running")
	ErrNothingRunning    = errors.New("timer is not running")
	ErrInvalidCount      = errors.New("count must be a positive integer")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrUsage             = errors.New("usage")
	ErrStorage           = errors.New("storage failure")
)

// StorageError wraps a persistence failure.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err unless it is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsSoft reports whether err is a warning that leaves all state untouched.
func IsSoft(err error) bool {
	return errors.Is(err, ErrAlreadyRunning) || errors.Is(err, ErrNothingRunning)
}
