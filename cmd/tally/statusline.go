// Package main provides the tally command-line entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thebtf/tally/internal/render"
	"github.com/thebtf/tally/pkg/models"
)

// Statusline formats, selected with --format or TALLY_STATUSLINE_FORMAT.
const (
	statuslineDefault = "default"
	statuslineCompact = "compact"
	statuslineMinimal = "minimal"
)

func newStatuslineCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "statusline",
		Short: "Print today's totals on one line, for shell prompts and status bars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = os.Getenv("TALLY_STATUSLINE_FORMAT")
			}

			a, err := openApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.stats.DailySummary(cmd.Context(), a.stats.Today())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatStatusLine(summary, format, a.money))
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "default, compact or minimal")
	return cmd
}

// formatStatusLine renders a daily summary as a single line.
func formatStatusLine(s *models.Summary, format string, m *render.Money) string {
	total := s.Total
	earned := strings.TrimSpace(m.Amount(total.Earnings) + " " + m.Currency())

	switch format {
	case statuslineMinimal:
		return earned
	case statuslineCompact:
		return fmt.Sprintf("%d | %s | %s", total.Count, render.FormatDuration(total.DurationSeconds), earned)
	default:
		// [tally] today: 14 units | 1:00:00 | 14.00 € | 14.00 €/h
		rate := strings.TrimSpace(m.Amount(total.HourlyRate()) + " " + m.Currency())
		return fmt.Sprintf("[tally] today: %d units | %s | %s | %s/h",
			total.Count, render.FormatDuration(total.DurationSeconds), earned, rate)
	}
}
