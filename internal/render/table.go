// Package render formats tally read models as text tables or JSON.
package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thebtf/tally/pkg/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// Table renders read models as uncoloured ASCII tables.
type Table struct {
	money *Money
	loc   *time.Location
	title cases.Caser
}

// NewTable creates a table renderer.
func NewTable(opts Options) *Table {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Table{
		money: NewMoney(opts.Locale, opts.Currency),
		loc:   loc,
		title: cases.Title(language.English),
	}
}

func (t *Table) Summary(w io.Writer, s *models.Summary) error {
	if s.Empty() {
		_, err := fmt.Fprintf(w, "No entries found. %s\n", s.Title)
		return err
	}

	if _, err := fmt.Fprintln(w, s.Title); err != nil {
		return err
	}
	tw := t.newWriter(w)
	tw.SetHeader([]string{"Task", "Count", "Duration", t.money.Label("Earned"), t.money.Label("Hourly rate")})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, ts := range s.Tasks {
		tw.Append(t.summaryRow(ts))
	}
	tw.SetFooter(t.summaryRow(s.Total))
	tw.Render()
	return nil
}

func (t *Table) summaryRow(ts models.TaskSummary) []string {
	return []string{
		ts.Task,
		strconv.FormatInt(ts.Count, 10),
		FormatDuration(ts.DurationSeconds),
		t.money.Amount(ts.Earnings),
		t.money.Amount(ts.HourlyRate()),
	}
}

func (t *Table) Projection(w io.Writer, p *models.Projection) error {
	month := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, t.loc)
	if _, err := fmt.Fprintf(w, "Projection for %s\n", month.Format("2006-01")); err != nil {
		return err
	}
	tw := t.newWriter(w)
	tw.SetHeader([]string{"Metric", "Value"})
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	tw.AppendBulk([][]string{
		{t.money.Label("Earned so far"), t.money.Amount(p.Earned)},
		{"Days worked", strconv.Itoa(p.DaysWorked)},
		{"Days elapsed", fmt.Sprintf("%d / %d", p.DaysElapsed, p.DaysInMonth)},
		{t.money.Label("Average per worked day"), t.money.Amount(p.PerWorkedDay)},
		{t.money.Label("Projected month total"), t.money.Amount(p.ProjectedTotal)},
	})
	tw.Render()
	return nil
}

func (t *Table) History(w io.Writer, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}

	tw := t.newWriter(w)
	tw.SetHeader([]string{"ID", "Start", "Task", "Duration", "Count", t.money.Label("Price"), t.money.Label("Earned")})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, e := range entries {
		tw.Append([]string{
			strconv.FormatInt(e.ID, 10),
			e.StartTime.In(t.loc).Format(timestampLayout),
			e.TaskName,
			FormatDuration(e.DurationSeconds),
			strconv.FormatInt(e.Count, 10),
			t.money.Amount(e.Price),
			t.money.Amount(e.Earnings),
		})
	}
	tw.Render()
	return nil
}

func (t *Table) Tasks(w io.Writer, tasks []*models.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	tw := t.newWriter(w)
	tw.SetHeader([]string{"Name", t.money.Label("Price")})
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, task := range tasks {
		tw.Append([]string{task.Name, t.money.Amount(task.Price)})
	}
	tw.Render()
	return nil
}

func (t *Table) Task(w io.Writer, task *models.Task) error {
	_, err := fmt.Fprintf(w, "Price for %q set to %s %s\n", task.Name, t.money.Amount(task.Price), t.money.Currency())
	return err
}

func (t *Table) Status(w io.Writer, st *models.Status) error {
	snap := st.Session
	var line string
	switch snap.State {
	case models.SessionIdle:
		line = "No active task."
	case models.SessionRunning:
		line = fmt.Sprintf("Active task: %s (%s, %s)", snap.Task, t.title.String(snap.State.String()), FormatElapsed(snap.Elapsed))
	default:
		// Stopped with elapsed time means a write failed and the time is not yet recorded.
		if snap.Elapsed > 0 {
			line = fmt.Sprintf("Active task: %s (%s, %s unrecorded)", snap.Task, t.title.String(snap.State.String()), FormatElapsed(snap.Elapsed))
		} else {
			line = fmt.Sprintf("Active task: %s (%s)", snap.Task, t.title.String(snap.State.String()))
		}
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	return t.Summary(w, st.Today)
}

func (t *Table) newWriter(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
	return tw
}
