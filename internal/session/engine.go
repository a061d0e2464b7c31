// Package session provides the active session state machine for tally.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/tally/pkg/models"
)

// Registry resolves task names, creating unknown tasks with price 0.
type Registry interface {
	GetOrCreate(ctx context.Context, name string) (*models.Task, error)
}

// Recorder persists finalized entries and returns the assigned ID.
type Recorder interface {
	Append(ctx context.Context, entry *models.TaskEntry) (int64, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now as the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRearmOnIncrement keeps a running timer running across an increment.
// The re-armed window starts at the instant the previous entry was finalized.
func WithRearmOnIncrement(rearm bool) Option {
	return func(e *Engine) {
		e.rearm = rearm
	}
}

// Engine owns the active task and its timer.
// It is not safe for concurrent use; callers serialize access on one goroutine.
type Engine struct {
	registry Registry
	recorder Recorder
	now      func() time.Time
	rearm    bool

	task         string
	timerStart   time.Time // zero unless running
	sessionStart time.Time // first start of the current entry window
	accumulated  time.Duration
}

// NewEngine creates an idle engine.
func NewEngine(registry Registry, recorder Recorder, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Switch finalizes any pending time with count 0 and selects task.
// The returned entry is nil when nothing was pending.
func (e *Engine) Switch(ctx context.Context, task string) (*models.TaskEntry, error) {
	if strings.TrimSpace(task) == "" {
		return nil, models.ErrInvalidTaskName
	}
	if _, err := e.registry.GetOrCreate(ctx, task); err != nil {
		return nil, fmt.Errorf("switch to %q: %w", task, err)
	}

	var entry *models.TaskEntry
	if e.pending() {
		e.fold()
		var err error
		entry, err = e.finalize(ctx, 0)
		if err != nil {
			return nil, err
		}
	}

	e.task = task
	e.clear()

	log.Debug().Str("task", task).Msg("Switched task")
	return entry, nil
}

// Start starts the timer for the active task.
func (e *Engine) Start(ctx context.Context) error {
	if e.task == "" {
		return models.ErrNoActiveTask
	}
	if e.running() {
		return models.ErrAlreadyRunning
	}

	now := e.now()
	e.timerStart = now
	if e.sessionStart.IsZero() {
		e.sessionStart = now
	}

	log.Debug().Str("task", e.task).Time("session_start", e.sessionStart).Msg("Timer started")
	return nil
}

// Pause stops the timer and records the elapsed time with count 0.
func (e *Engine) Pause(ctx context.Context) (*models.TaskEntry, error) {
	if !e.running() {
		return nil, models.ErrNothingRunning
	}
	e.fold()
	return e.finalize(ctx, 0)
}

// Increment records n completed units together with the accrued time.
// The session is left stopped unless re-arming is enabled and the timer was running.
func (e *Engine) Increment(ctx context.Context, n int64) (*models.TaskEntry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidCount, n)
	}
	if e.task == "" {
		return nil, models.ErrNoActiveTask
	}

	wasRunning := e.running()
	e.fold()
	entry, err := e.finalize(ctx, n)
	if err != nil {
		return nil, err
	}

	if e.rearm && wasRunning {
		now := e.now()
		e.timerStart = now
		e.sessionStart = now
	}
	return entry, nil
}

// FinalizeOnExit writes any pending time with count 0 and returns the engine to idle.
// Calling it again writes nothing.
func (e *Engine) FinalizeOnExit(ctx context.Context) (*models.TaskEntry, error) {
	if e.task == "" {
		return nil, nil
	}

	var entry *models.TaskEntry
	if e.pending() {
		e.fold()
		var err error
		entry, err = e.finalize(ctx, 0)
		if err != nil {
			return nil, err
		}
	}

	e.task = ""
	e.clear()
	return entry, nil
}

// Snapshot returns the live session without finalizing anything.
func (e *Engine) Snapshot() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		Task:         e.task,
		SessionStart: e.sessionStart,
		Elapsed:      e.accumulated,
	}
	switch {
	case e.task == "":
		snap.State = models.SessionIdle
	case e.running():
		snap.State = models.SessionRunning
		snap.Elapsed += e.since(e.timerStart)
	default:
		snap.State = models.SessionStopped
	}
	return snap
}

// Task returns the active task name, or "" when idle.
func (e *Engine) Task() string {
	return e.task
}

func (e *Engine) running() bool {
	return !e.timerStart.IsZero()
}

func (e *Engine) pending() bool {
	return e.running() || e.accumulated > 0
}

// fold moves in-flight running time into the accrual and stops the timer.
func (e *Engine) fold() {
	if !e.running() {
		return
	}
	e.accumulated += e.since(e.timerStart)
	e.timerStart = time.Time{}
}

func (e *Engine) since(t time.Time) time.Duration {
	d := e.now().Sub(t)
	if d < 0 {
		return 0
	}
	return d
}

func (e *Engine) clear() {
	e.timerStart = time.Time{}
	e.sessionStart = time.Time{}
	e.accumulated = 0
}

// finalize appends the accrual as one entry. The accrual is reset only after
// the write succeeds.
func (e *Engine) finalize(ctx context.Context, count int64) (*models.TaskEntry, error) {
	start := e.sessionStart
	if start.IsZero() {
		start = e.now()
	}

	entry := &models.TaskEntry{
		TaskName:        e.task,
		StartTime:       start,
		DurationSeconds: e.accumulated.Seconds(),
		Count:           count,
	}

	id, err := e.recorder.Append(ctx, entry)
	if err != nil {
		log.Error().Err(err).
			Str("task", e.task).
			Dur("duration", e.accumulated).
			Int64("count", count).
			Msg("Failed to record entry, keeping accrued time")
		return nil, fmt.Errorf("finalize %q: %w", e.task, err)
	}
	entry.ID = id

	e.accumulated = 0
	e.sessionStart = time.Time{}

	log.Info().
		Int64("entry_id", id).
		Str("task", entry.TaskName).
		Dur("duration", entry.Duration()).
		Int64("count", count).
		Msg("Recorded entry")
	return entry, nil
}
