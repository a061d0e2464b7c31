// Package models contains domain models for tally.
package models

import "time"

// TaskSummary aggregates the entries of one task over a period.
// The same shape is used for the grand total, with Task set to "TOTAL".
type TaskSummary struct {
	Task            string  `json:"task"`
	Count           int64   `json:"count"`
	DurationSeconds float64 `json:"duration_seconds"`
	Price           float64 `json:"price"`
	Earnings        float64 `json:"earnings"`
}

// Hours returns the summed duration in hours.
func (t TaskSummary) Hours() float64 {
	return t.DurationSeconds / 3600
}

// HourlyRate returns earnings per hour, or 0 when no time was recorded.
func (t TaskSummary) HourlyRate() float64 {
	h := t.Hours()
	if h <= 0 {
		return 0
	}
	return t.Earnings / h
}

// Summary is the result of a daily, monthly or range aggregation.
type Summary struct {
	Title string        `json:"title"`
	From  time.Time     `json:"from"`
	To    time.Time     `json:"to"`
	Tasks []TaskSummary `json:"tasks"`
	Total TaskSummary   `json:"total"`
}

// Empty reports whether no entries fell into the period.
func (s *Summary) Empty() bool {
	return len(s.Tasks) == 0
}

// HistoryEntry is an entry with earnings computed from the task's current price.
type HistoryEntry struct {
	TaskEntry
	Price    float64 `json:"price"`
	Earnings float64 `json:"earnings"`
}

// Status combines today's summary with the live session.
type Status struct {
	Session SessionSnapshot `json:"session"`
	Today   *Summary        `json:"today"`
}

// Projection estimates the earnings of a calendar month.
type Projection struct {
	Year           int        `json:"year"`
	Month          time.Month `json:"month"`
	Earned         float64    `json:"earned"`
	DaysWorked     int        `json:"days_worked"`
	DaysElapsed    int        `json:"days_elapsed"`
	DaysInMonth    int        `json:"days_in_month"`
	PerWorkedDay   float64    `json:"per_worked_day"`
	ProjectedTotal float64    `json:"projected_total"`
}
