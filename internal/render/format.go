// Package render formats tally read models as text tables or JSON.
package render

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatDuration renders seconds as H:MM:SS, rounded to the nearest second.
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0:00:00"
	}
	total := int64(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatElapsed renders a duration as H:MM:SS.
func FormatElapsed(d time.Duration) string {
	return FormatDuration(d.Seconds())
}

// Money formats amounts with two decimals using locale-aware grouping.
type Money struct {
	printer  *message.Printer
	currency string
}

// NewMoney creates a formatter for the given BCP 47 locale and currency symbol.
// Unparseable locales fall back to English.
func NewMoney(locale, currency string) *Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Money{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Amount formats v without the currency symbol.
func (m *Money) Amount(v float64) string {
	return m.printer.Sprintf("%.2f", v)
}

// Currency returns the configured currency symbol.
func (m *Money) Currency() string {
	return m.currency
}

// Label appends the currency to a column title, e.g. "Earned (€)".
func (m *Money) Label(title string) string {
	if m.currency == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, m.currency)
}
