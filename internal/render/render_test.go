// Package render formats tally read models as text tables or JSON.
package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/tally/pkg/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{-5, "0:00:00"},
		{0.4, "0:00:00"},
		{0.5, "0:00:01"},
		{62, "0:01:02"},
		{3599.6, "1:00:00"},
		{3725, "1:02:05"},
		{36000 * 3, "30:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds=%v", tt.seconds)
	}
	assert.Equal(t, "0:01:02", FormatElapsed(62*time.Second))
}

func TestMoney(t *testing.T) {
	m := NewMoney("en", "€")
	assert.Equal(t, "10.00", m.Amount(10))
	assert.Equal(t, "2.50", m.Amount(2.5))
	assert.Equal(t, "Earned (€)", m.Label("Earned"))
	assert.Equal(t, "€", m.Currency())

	bare := NewMoney("not a locale!", "")
	assert.Equal(t, "0.40", bare.Amount(0.4))
	assert.Equal(t, "Earned", bare.Label("Earned"))
}

func sampleSummary() *models.Summary {
	return &models.Summary{
		Title: "Daily summary for 2024-03-10",
		Tasks: []models.TaskSummary{
			{Task: "label", Count: 10, DurationSeconds: 1800, Price: 0.4, Earnings: 4},
			{Task: "review", Count: 4, DurationSeconds: 1800, Price: 2.5, Earnings: 10},
		},
		Total: models.TaskSummary{Task: "TOTAL", Count: 14, DurationSeconds: 3600, Earnings: 14},
	}
}

func TestTableSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(Options{Currency: "€", Locale: "en", Location: time.UTC})

	require.NoError(t, r.Summary(&buf, sampleSummary()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Daily summary for 2024-03-10\n"))
	for _, want := range []string{"Task", "Earned (€)", "label", "review", "0:30:00", "1:00:00", "10.00", "20.00", "TOTAL", "14.00"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "label"), strings.Index(out, "review"))
	assert.Less(t, strings.Index(out, "review"), strings.Index(out, "TOTAL"))
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(Options{})

	require.NoError(t, r.Summary(&buf, &models.Summary{Title: "Monthly summary for 2024-04"}))
	require.NoError(t, r.History(&buf, nil))
	require.NoError(t, r.Tasks(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "No entries found. Monthly summary for 2024-04")
	assert.Contains(t, out, "No entries found.\n")
	assert.Contains(t, out, "No tasks found.")
}

func TestTableHistory(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(Options{Currency: "$", Locale: "en", Location: time.FixedZone("UTC+2", 7200)})

	entries := []models.HistoryEntry{{
		TaskEntry: models.TaskEntry{
			ID:              7,
			TaskName:        "review",
			StartTime:       time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			DurationSeconds: 125,
			Count:           2,
		},
		Price:    2.5,
		Earnings: 5,
	}}
	require.NoError(t, r.History(&buf, entries))

	out := buf.String()
	assert.Contains(t, out, "2024-03-10 11:00:00", "start is shown in the configured timezone")
	assert.Contains(t, out, "0:02:05")
	assert.Contains(t, out, "Price ($)")
	assert.Contains(t, out, "5.00")
}

func TestTableStatus(t *testing.T) {
	r := NewTable(Options{Location: time.UTC})

	tests := []struct {
		name string
		snap models.SessionSnapshot
		want string
	}{
		{name: "idle", snap: models.SessionSnapshot{State: models.SessionIdle}, want: "No active task."},
		{name: "stopped", snap: models.SessionSnapshot{State: models.SessionStopped, Task: "review"}, want: "Active task: review (Stopped)"},
		{
			name: "stopped with unrecorded time",
			snap: models.SessionSnapshot{State: models.SessionStopped, Task: "review", Elapsed: 95 * time.Second},
			want: "Active task: review (Stopped, 0:01:35 unrecorded)",
		},
		{
			name: "running",
			snap: models.SessionSnapshot{State: models.SessionRunning, Task: "review", Elapsed: 62 * time.Second},
			want: "Active task: review (Running, 0:01:02)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Status(&buf, &models.Status{Session: tt.snap, Today: sampleSummary()}))
			assert.True(t, strings.HasPrefix(buf.String(), tt.want+"\n"), buf.String())
			assert.Contains(t, buf.String(), "TOTAL")
		})
	}
}

func TestTableProjectionAndTasks(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(Options{Currency: "€", Locale: "en", Location: time.UTC})

	require.NoError(t, r.Projection(&buf, &models.Projection{
		Year: 2024, Month: time.March, Earned: 30, DaysWorked: 2,
		DaysElapsed: 10, DaysInMonth: 31, PerWorkedDay: 15, ProjectedTotal: 93,
	}))
	require.NoError(t, r.Tasks(&buf, []*models.Task{{Name: "review", Price: 2.5}}))
	require.NoError(t, r.Task(&buf, &models.Task{Name: "review", Price: 2.5}))

	out := buf.String()
	assert.Contains(t, out, "Projection for 2024-03")
	assert.Contains(t, out, "10 / 31")
	assert.Contains(t, out, "93.00")
	assert.Contains(t, out, "2.50")
	assert.Contains(t, out, `Price for "review" set to 2.50 €`)
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := New(true, Options{})

	require.NoError(t, r.Summary(&buf, sampleSummary()))

	var got models.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "TOTAL", got.Total.Task)
	assert.Len(t, got.Tasks, 2)

	buf.Reset()
	require.NoError(t, r.History(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Status(&buf, &models.Status{
		Session: models.SessionSnapshot{State: models.SessionRunning, Task: "review"},
		Today:   &models.Summary{Tasks: []models.TaskSummary{}},
	}))
	assert.Contains(t, buf.String(), `"state": "running"`)
}

func TestNewSelectsRenderer(t *testing.T) {
	assert.IsType(t, &JSON{}, New(true, Options{}))
	assert.IsType(t, &Table{}, New(false, Options{}))
}
