// Package tracker parses interactive commands and routes them to the session
// and statistics engines.
package tracker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/tally/internal/render"
	"github.com/thebtf/tally/internal/session"
	"github.com/thebtf/tally/internal/stats"
	"github.com/thebtf/tally/pkg/models"
	"github.com/thebtf/tally/pkg/similarity"
)

// Registry is the part of the task registry the dispatcher uses directly.
type Registry interface {
	UpsertPrice(ctx context.Context, name string, price float64) (*models.Task, error)
	Get(ctx context.Context, name string) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
}

// Config holds the dependencies of a Tracker.
type Config struct {
	Session  *session.Engine
	Stats    *stats.Engine
	Tasks    Registry
	Renderer render.Renderer
	Out      io.Writer
}

// Tracker routes commands to the engines and writes results to Out.
// All methods must be called from the same goroutine.
type Tracker struct {
	session  *session.Engine
	stats    *stats.Engine
	tasks    Registry
	renderer render.Renderer
	out      io.Writer
}

// New creates a Tracker.
func New(cfg Config) *Tracker {
	return &Tracker{
		session:  cfg.Session,
		stats:    cfg.Stats,
		tasks:    cfg.Tasks,
		renderer: cfg.Renderer,
		out:      cfg.Out,
	}
}

// Handle parses and executes one input line.
// It reports whether the line asked the tracker to exit.
func (t *Tracker) Handle(ctx context.Context, line string) (bool, error) {
	cmd, err := Parse(line)
	if err != nil {
		return false, err
	}
	return t.Execute(ctx, cmd)
}

// Execute runs a parsed command.
func (t *Tracker) Execute(ctx context.Context, cmd Command) (bool, error) {
	log.Debug().Str("command", cmd.Kind.String()).Msg("Executing command")

	switch cmd.Kind {
	case CmdHelp:
		_, err := fmt.Fprint(t.out, HelpText)
		return false, err

	case CmdSwitch:
		existing, err := t.tasks.Get(ctx, cmd.Task)
		if err != nil {
			return false, err
		}
		entry, err := t.session.Switch(ctx, cmd.Task)
		if err != nil {
			return false, err
		}
		t.recorded(entry)
		t.printf("Switched to task %q.\n", cmd.Task)
		if existing == nil {
			t.similarTasks(ctx, cmd.Task)
		}
		return false, nil

	case CmdStart:
		if err := t.session.Start(ctx); err != nil {
			return false, err
		}
		t.printf("Timer started for %q.\n", t.session.Task())
		return false, nil

	case CmdPause:
		entry, err := t.session.Pause(ctx)
		if err != nil {
			return false, err
		}
		t.recorded(entry)
		return false, nil

	case CmdIncrement:
		entry, err := t.session.Increment(ctx, cmd.Count)
		if err != nil {
			return false, err
		}
		t.recorded(entry)
		return false, nil

	case CmdSetPrice:
		task, err := t.tasks.UpsertPrice(ctx, cmd.Task, cmd.Price)
		if err != nil {
			return false, err
		}
		return false, t.renderer.Task(t.out, task)

	case CmdList:
		tasks, err := t.tasks.List(ctx)
		if err != nil {
			return false, err
		}
		return false, t.renderer.Tasks(t.out, tasks)

	case CmdStatus:
		st, err := t.stats.Status(ctx, t.session.Snapshot())
		if err != nil {
			return false, err
		}
		return false, t.renderer.Status(t.out, st)

	case CmdStats:
		if err := t.day(ctx, ""); err != nil {
			return false, err
		}
		return false, t.month(ctx, "")

	case CmdStatsDay:
		return false, t.day(ctx, cmd.Date)

	case CmdStatsMonth:
		return false, t.month(ctx, cmd.Date)

	case CmdHistory:
		history, err := t.stats.History(ctx, cmd.Limit)
		if err != nil {
			return false, err
		}
		return false, t.renderer.History(t.out, history)

	case CmdExit:
		return true, t.finalize(ctx)
	}

	return false, fmt.Errorf("%w: %s", models.ErrUnknownCommand, cmd.Kind)
}

// Run reads commands from in until exit, EOF or cancellation of ctx.
// Pending time is recorded before it returns; the returned error is the
// failure of that final write, if any.
func (t *Tracker) Run(ctx context.Context, in io.Reader) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		t.printf("%s", t.Prompt())

		select {
		case <-ctx.Done():
			t.printf("\n")
			log.Debug().Msg("Interrupted, recording pending time")
			return t.finalize(ctx)

		case line, ok := <-lines:
			if !ok {
				t.printf("\n")
				return t.finalize(ctx)
			}
			exit, err := t.Handle(ctx, line)
			if exit {
				return err
			}
			t.report(err)
		}
	}
}

// Prompt renders the session state, e.g. "[● review 0:01:02] ➜ ".
func (t *Tracker) Prompt() string {
	snap := t.session.Snapshot()
	switch snap.State {
	case models.SessionRunning:
		return fmt.Sprintf("[● %s %s] ➜ ", snap.Task, render.FormatElapsed(snap.Elapsed))
	case models.SessionStopped:
		return fmt.Sprintf("[■ %s] ➜ ", snap.Task)
	default:
		return "[■ no-task] ➜ "
	}
}

// similarTasks warns when a newly created task looks like a typo of a known one.
func (t *Tracker) similarTasks(ctx context.Context, name string) {
	tasks, err := t.tasks.List(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to list tasks for similarity check")
		return
	}
	names := make([]string, 0, len(tasks))
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	similar := similarity.SimilarNames(name, names, similarity.DefaultThreshold)
	if len(similar) == 0 {
		t.printf("New task %q created with price 0.\n", name)
		return
	}
	quoted := make([]string, len(similar))
	for i, n := range similar {
		quoted[i] = strconv.Quote(n)
	}
	t.printf("New task %q created with price 0. Did you mean %s?\n", name, strings.Join(quoted, " or "))
}

func (t *Tracker) day(ctx context.Context, date string) error {
	day := t.stats.Today()
	if date != "" {
		var err error
		if day, err = stats.ParseDay(date, t.stats.Location()); err != nil {
			return err
		}
	}
	summary, err := t.stats.DailySummary(ctx, day)
	if err != nil {
		return err
	}
	return t.renderer.Summary(t.out, summary)
}

func (t *Tracker) month(ctx context.Context, date string) error {
	today := t.stats.Today()
	year, month := today.Year(), today.Month()
	if date != "" {
		var err error
		if year, month, err = stats.ParseMonth(date); err != nil {
			return err
		}
	}
	summary, err := t.stats.MonthlySummary(ctx, year, month)
	if err != nil {
		return err
	}
	if err := t.renderer.Summary(t.out, summary); err != nil {
		return err
	}
	projection, err := t.stats.Projection(ctx, year, month)
	if err != nil {
		return err
	}
	return t.renderer.Projection(t.out, projection)
}

// finalize records pending time even when ctx has been cancelled.
func (t *Tracker) finalize(ctx context.Context) error {
	entry, err := t.session.FinalizeOnExit(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	t.recorded(entry)
	return nil
}

func (t *Tracker) recorded(entry *models.TaskEntry) {
	if entry == nil {
		return
	}
	t.printf("Recorded %s on %q (count %d).\n",
		render.FormatDuration(entry.DurationSeconds), entry.TaskName, entry.Count)
}

func (t *Tracker) report(err error) {
	if err == nil {
		return
	}
	if models.IsSoft(err) {
		t.printf("Warning: %v\n", err)
		return
	}
	t.printf("Error: %v\n", err)
}

func (t *Tracker) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(t.out, format, args...); err != nil {
		log.Debug().Err(err).Msg("Failed to write output")
	}
}

// readLines forwards lines from in until EOF or until done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to read input")
		}
	}()
	return lines
}
