package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/client"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Show the whole board",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		b, err := boardClient.GetBoard(ctx)
		if err != nil {
			return fmt.Errorf("getting board: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), b)
		}
		printBoard(cmd.OutOrStdout(), b, localToday())
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:     "view",
	Short:   "Show the board through a filter",
	Long:    "Without flags the server's active filter applies; any flag builds an ad-hoc filter.",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ViewRequest{}
		req.Search, _ = cmd.Flags().GetString("search")
		req.Priorities, _ = cmd.Flags().GetString("priority")
		req.Labels, _ = cmd.Flags().GetStringSlice("label")
		if req.Priorities != "" {
			if _, err := view.ParsePriorityMask(req.Priorities); err != nil {
				return err
			}
		}

		v, err := boardClient.GetView(context.Background(), req)
		if err != nil {
			return fmt.Errorf("getting view: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), v)
		}
		if !v.Filter.IsDefault() {
			fmt.Fprintf(cmd.OutOrStdout(), "filter: %s\n\n", describeFilter(v.Filter))
		}
		printBoard(cmd.OutOrStdout(), v.Board, localToday())
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:     "filter",
	Short:   "Show or set the server's active filter",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		flags := cmd.Flags()
		reset, _ := flags.GetBool("reset")
		changed := reset || flags.Changed("search") || flags.Changed("priority") || flags.Changed("label")

		f, err := boardClient.GetFilter(ctx)
		if err != nil {
			return fmt.Errorf("getting filter: %w", err)
		}
		if changed {
			if reset {
				f = view.DefaultFilter()
			}
			if flags.Changed("search") {
				f.Search, _ = flags.GetString("search")
			}
			if flags.Changed("priority") {
				s, _ := flags.GetString("priority")
				if f.Priorities, err = view.ParsePriorityMask(s); err != nil {
					return err
				}
			}
			if flags.Changed("label") {
				f.Labels, _ = flags.GetStringSlice("label")
			}
			if f, err = boardClient.SetFilter(ctx, f); err != nil {
				return fmt.Errorf("setting filter: %w", err)
			}
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), f)
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeFilter(f))
		return nil
	},
}

func describeFilter(f view.Filter) string {
	if f.IsDefault() {
		return "all tasks"
	}
	s := fmt.Sprintf("priority=%s", f.Priorities)
	if f.Search != "" {
		s += fmt.Sprintf(" search=%q", f.Search)
	}
	if len(f.Labels) > 0 {
		s += fmt.Sprintf(" labels=%v", f.Labels)
	}
	return s
}

// localToday is the CLI's idea of today, used only for due badges.
func localToday() model.Date {
	return model.Today(time.Local)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "case-insensitive text in title or description")
	cmd.Flags().StringP("priority", "p", "", "priorities, e.g. high,medium (all, none)")
	cmd.Flags().StringSliceP("label", "l", nil, "label id; tasks must carry any of them (repeatable)")
}

func init() {
	addFilterFlags(viewCmd)
	addFilterFlags(filterCmd)
	filterCmd.Flags().Bool("reset", false, "clear the active filter first")
}
