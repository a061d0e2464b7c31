// Package models contains domain models for tally.
package models

import "time"

// SessionState is the state of the in-memory active session.
type SessionState int

const (
	// SessionIdle means no task is selected.
	SessionIdle SessionState = iota
	// SessionStopped means a task is selected but the timer is not running.
	SessionStopped
	// SessionRunning means the timer is running for the selected task.
	SessionRunning
)

func (s SessionState) String() string {
	switch s {
	case SessionStopped:
		return "stopped"
	case SessionRunning:
		return "running"
	default:
		return "idle"
	}
}

// MarshalText encodes the state by name.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SessionSnapshot is a read-only view of the active session at a point in time.
type SessionSnapshot struct {
	State        SessionState  `json:"state"`
	Task         string        `json:"task,omitempty"`
	SessionStart time.Time     `json:"session_start,omitempty"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

// Running reports whether the timer was running when the snapshot was taken.
func (s SessionSnapshot) Running() bool {
	return s.State == SessionRunning
}
