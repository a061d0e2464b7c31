// Package render formats tally read models as text tables or JSON.
package render

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/thebtf/tally/pkg/models"
)

// JSON renders read models as indented JSON documents, one per call.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

func (j *JSON) Summary(w io.Writer, s *models.Summary) error {
	return j.write(w, s)
}

func (j *JSON) Projection(w io.Writer, p *models.Projection) error {
	return j.write(w, p)
}

func (j *JSON) History(w io.Writer, entries []models.HistoryEntry) error {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return j.write(w, entries)
}

func (j *JSON) Tasks(w io.Writer, tasks []*models.Task) error {
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return j.write(w, tasks)
}

func (j *JSON) Task(w io.Writer, task *models.Task) error {
	return j.write(w, task)
}

func (j *JSON) Status(w io.Writer, st *models.Status) error {
	return j.write(w, st)
}

func (j *JSON) write(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
