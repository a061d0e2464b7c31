// Package stats provides aggregation and earnings projections over recorded entries.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/tally/pkg/models"
)

// TotalLabel names the grand total row of a summary.
const TotalLabel = "TOTAL"

// EntrySource reads the entry log.
type EntrySource interface {
	Between(ctx context.Context, from, to time.Time) ([]*models.TaskEntry, error)
	Recent(ctx context.Context, n int) ([]*models.TaskEntry, error)
}

// PriceSource returns the current price of every known task.
type PriceSource interface {
	Prices(ctx context.Context) (map[string]float64, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the timezone used for day and month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock replaces time.Now as the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine computes summaries on demand. It holds no state besides its sources.
// Earnings always use the current task price.
type Engine struct {
	entries EntrySource
	prices  PriceSource
	loc     *time.Location
	now     func() time.Time
}

// NewEngine creates a statistics engine.
func NewEngine(entries EntrySource, prices PriceSource, opts ...Option) *Engine {
	e := &Engine{
		entries: entries,
		prices:  prices,
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the timezone used for bucketing.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today returns the current instant in the engine's timezone.
func (e *Engine) Today() time.Time {
	return e.now().In(e.loc)
}

// DailySummary aggregates the local calendar day containing date.
func (e *Engine) DailySummary(ctx context.Context, date time.Time) (*models.Summary, error) {
	from := dayStart(date.In(e.loc))
	summary, err := e.RangeSummary(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	summary.Title = "Daily summary for " + from.Format(DayLayout)
	return summary, nil
}

// MonthlySummary aggregates a local calendar month.
func (e *Engine) MonthlySummary(ctx context.Context, year int, month time.Month) (*models.Summary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, e.loc)
	summary, err := e.RangeSummary(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	summary.Title = "Monthly summary for " + from.Format(MonthLayout)
	return summary, nil
}

// RangeSummary aggregates entries starting in [from, to) by task, sorted by name.
func (e *Engine) RangeSummary(ctx context.Context, from, to time.Time) (*models.Summary, error) {
	entries, err := e.entries.Between(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("range summary: %w", err)
	}
	prices, err := e.prices.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("range summary: %w", err)
	}

	summary := aggregate(entries, prices)
	summary.From = from
	summary.To = to

	log.Debug().
		Time("from", from).
		Time("to", to).
		Int("entries", len(entries)).
		Int("tasks", len(summary.Tasks)).
		Msg("Aggregated entries")
	return summary, nil
}

// Status returns today's summary together with the live session.
func (e *Engine) Status(ctx context.Context, snap models.SessionSnapshot) (*models.Status, error) {
	today, err := e.DailySummary(ctx, e.Today())
	if err != nil {
		return nil, err
	}
	return &models.Status{Session: snap, Today: today}, nil
}

// History returns the n most recent entries, most recent first.
// With n <= 0 it returns all of today's entries instead.
func (e *Engine) History(ctx context.Context, n int) ([]models.HistoryEntry, error) {
	var (
		entries []*models.TaskEntry
		err     error
	)
	if n > 0 {
		entries, err = e.entries.Recent(ctx, n)
	} else {
		from := dayStart(e.Today())
		entries, err = e.entries.Between(ctx, from, from.AddDate(0, 0, 1))
		reverse(entries)
	}
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	prices, err := e.prices.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	history := make([]models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		price := prices[entry.TaskName]
		history = append(history, models.HistoryEntry{
			TaskEntry: *entry,
			Price:     price,
			Earnings:  float64(entry.Count) * price,
		})
	}
	return history, nil
}

// Projection estimates the total earnings of a calendar month from the days elapsed so far.
// Past months project to what was earned; future months project to zero.
func (e *Engine) Projection(ctx context.Context, year int, month time.Month) (*models.Projection, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, e.loc)
	to := from.AddDate(0, 1, 0)
	p := &models.Projection{
		Year:        year,
		Month:       month,
		DaysInMonth: time.Date(year, month+1, 0, 0, 0, 0, 0, e.loc).Day(),
	}

	now := e.Today()
	if now.Before(from) {
		return p, nil
	}

	entries, err := e.entries.Between(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	prices, err := e.prices.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}

	days := make(map[int]struct{})
	for _, entry := range entries {
		p.Earned += float64(entry.Count) * prices[entry.TaskName]
		days[entry.StartTime.In(e.loc).Day()] = struct{}{}
	}
	p.DaysWorked = len(days)
	if p.DaysWorked > 0 {
		p.PerWorkedDay = p.Earned / float64(p.DaysWorked)
	}

	if now.Before(to) {
		p.DaysElapsed = now.Day()
		p.ProjectedTotal = p.Earned / float64(p.DaysElapsed) * float64(p.DaysInMonth)
	} else {
		p.DaysElapsed = p.DaysInMonth
		p.ProjectedTotal = p.Earned
	}
	return p, nil
}

func aggregate(entries []*models.TaskEntry, prices map[string]float64) *models.Summary {
	byTask := make(map[string]*models.TaskSummary)
	for _, entry := range entries {
		ts, ok := byTask[entry.TaskName]
		if !ok {
			ts = &models.TaskSummary{Task: entry.TaskName, Price: prices[entry.TaskName]}
			byTask[entry.TaskName] = ts
		}
		ts.Count += entry.Count
		ts.DurationSeconds += entry.DurationSeconds
	}

	summary := &models.Summary{
		Tasks: make([]models.TaskSummary, 0, len(byTask)),
		Total: models.TaskSummary{Task: TotalLabel},
	}
	for _, ts := range byTask {
		ts.Earnings = float64(ts.Count) * ts.Price
		summary.Tasks = append(summary.Tasks, *ts)

		summary.Total.Count += ts.Count
		summary.Total.DurationSeconds += ts.DurationSeconds
		summary.Total.Earnings += ts.Earnings
	}
	sort.Slice(summary.Tasks, func(i, j int) bool {
		return summary.Tasks[i].Task < summary.Tasks[j].Task
	})
	return summary
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func reverse(entries []*models.TaskEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
