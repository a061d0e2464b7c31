// Package render formats tally read models as text tables or JSON.
package render

import (
	"io"
	"time"

	"github.com/thebtf/tally/pkg/models"
)

// Renderer writes read models to an output stream.
type Renderer interface {
	Summary(w io.Writer, s *models.Summary) error
	Projection(w io.Writer, p *models.Projection) error
	History(w io.Writer, entries []models.HistoryEntry) error
	Tasks(w io.Writer, tasks []*models.Task) error
	Task(w io.Writer, task *models.Task) error
	Status(w io.Writer, st *models.Status) error
}

// Options configure the table renderer.
type Options struct {
	Currency string
	Locale   string
	Location *time.Location
}

// New returns the JSON renderer when asJSON is set, otherwise the table renderer.
func New(asJSON bool, opts Options) Renderer {
	if asJSON {
		return NewJSON()
	}
	return NewTable(opts)
}
