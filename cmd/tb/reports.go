package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show board statistics",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		if top < 0 {
			return fmt.Errorf("--top must not be negative")
		}
		s, err := boardClient.Stats(context.Background(), top)
		if err != nil {
			return fmt.Errorf("getting statistics: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), s)
		}
		printStats(cmd.OutOrStdout(), s)
		return nil
	},
}

var remindersCmd = &cobra.Command{
	Use:     "reminders",
	Short:   "List tasks that are overdue or due today or tomorrow",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := boardClient.Reminders(context.Background())
		if err != nil {
			return fmt.Errorf("getting reminders: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), r)
		}
		printReminders(cmd.OutOrStdout(), r.Reminders)
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Short:   "Show a month of due dates",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		month, _ := cmd.Flags().GetInt("month")
		if month < 0 || month > 12 {
			return fmt.Errorf("--month must be 1-12")
		}
		m, err := boardClient.Calendar(context.Background(), year, month)
		if err != nil {
			return fmt.Errorf("getting calendar: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), m)
		}
		printCalendar(cmd.OutOrStdout(), m)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("top", 0, "number of top labels (default: server setting)")
	calendarCmd.Flags().Int("year", 0, "year (default: current)")
	calendarCmd.Flags().Int("month", 0, "month 1-12 (default: current)")
}
