// Package main provides the tally command-line entry point.
package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func addJSONFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of tables")
}

func newReportCmd(opts *options) *cobra.Command {
	report := &cobra.Command{
		Use:   "report",
		Short: "Print a daily or monthly summary",
	}

	day := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Summary for a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd.Context(), opts, cmd.OutOrStdout(), "stats day "+strings.Join(args, " "))
		},
	}
	month := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Summary and projection for a month (default this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd.Context(), opts, cmd.OutOrStdout(), "stats month "+strings.Join(args, " "))
		},
	}
	addJSONFlag(day, opts)
	addJSONFlag(month, opts)

	report.AddCommand(day, month)
	return report
}

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [n]",
		Short: "List the last n entries (default today's entries)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd.Context(), opts, cmd.OutOrStdout(), "history "+strings.Join(args, " "))
		},
	}
	addJSONFlag(cmd, opts)
	return cmd
}

func newTasksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"list"},
		Short:   "List known tasks and their prices",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd.Context(), opts, cmd.OutOrStdout(), "list")
		},
	}
	addJSONFlag(cmd, opts)
	return cmd
}

func newSetPriceCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-price <task> <price>",
		Short: "Create a task or update its price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd.Context(), opts, cmd.OutOrStdout(), "set-price "+strings.Join(args, " "))
		},
	}
	addJSONFlag(cmd, opts)
	return cmd
}
