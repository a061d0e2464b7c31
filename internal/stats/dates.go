// Package stats provides aggregation and earnings projections over recorded entries.
package stats

import (
	"fmt"
	"time"

	"github.com/thebtf/tally/pkg/models"
)

// Layouts accepted for day and month arguments.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseDay parses a YYYY-MM-DD argument as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", models.ErrInvalidDateFormat, s)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM argument.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q, expected YYYY-MM", models.ErrInvalidDateFormat, s)
	}
	return t.Year(), t.Month(), nil
}
