package main

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/client"
	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/spf13/cobra"
)

// parseDueFlag parses a --due value. "none" and "" clear the date.
func parseDueFlag(s string) (*model.Date, error) {
	if s == "" || strings.EqualFold(s, "none") {
		return &model.Date{}, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --due %q (want YYYY-MM-DD or none)", s)
	}
	return &d, nil
}

var addCmd = &cobra.Command{
	Use:     "add <title>",
	Short:   "Add a task to the intake column",
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := engine.TaskInput{Title: strings.Join(args, " ")}
		in.Description, _ = cmd.Flags().GetString("description")
		in.Labels, _ = cmd.Flags().GetStringSlice("label")

		if p, _ := cmd.Flags().GetString("priority"); p != "" {
			prio, err := model.ParsePriority(p)
			if err != nil {
				return err
			}
			in.Priority = prio
		}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			d, err := parseDueFlag(due)
			if err != nil {
				return err
			}
			in.DueDate = d
		}
		if cmd.Flags().Changed("reminder") {
			r, _ := cmd.Flags().GetBool("reminder")
			in.Reminder = &r
		}

		task, err := boardClient.AddTask(context.Background(), in)
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), task)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", task.ID, task.ColumnID)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := boardClient.GetTask(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("getting task: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), task)
		}
		printTask(cmd.OutOrStdout(), task)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Edit a task's fields",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.EditTaskRequest{}
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			req.Title = &v
		}
		if flags.Changed("description") {
			v, _ := flags.GetString("description")
			req.Description = &v
		}
		if flags.Changed("priority") {
			v, _ := flags.GetString("priority")
			p, err := model.ParsePriority(v)
			if err != nil {
				return err
			}
			req.Priority = &p
		}
		if flags.Changed("due") {
			v, _ := flags.GetString("due")
			d, err := parseDueFlag(v)
			if err != nil {
				return err
			}
			if d.IsZero() {
				req.ClearDueDate = true
			} else {
				req.DueDate = d
			}
		}
		if flags.Changed("reminder") {
			v, _ := flags.GetBool("reminder")
			req.Reminder = &v
		}
		if flags.Changed("label") {
			v, _ := flags.GetStringSlice("label")
			req.Labels = &v
		}
		if req.TaskPatch.IsEmpty() && !req.ClearDueDate {
			return fmt.Errorf("nothing to change; pass at least one flag")
		}

		task, err := boardClient.EditTask(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("editing task: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), task)
		}
		printTask(cmd.OutOrStdout(), task)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:     "move <id> <column-id>",
	Short:   "Move a task to a column position",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		if index < 0 {
			// The server clamps the index to the end of the column.
			index = math.MaxInt32
		}
		res, err := boardClient.MoveTask(context.Background(), args[0], &client.MoveTaskRequest{
			ToColumn: args[1],
			ToIndex:  index,
		})
		if err != nil {
			return fmt.Errorf("moving task: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		switch res.Transition {
		case engine.TransitionNone:
			fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged\n", args[0])
		case engine.TransitionReordered:
			fmt.Fprintf(cmd.OutOrStdout(), "%s reordered in %s\n", args[0], res.ToColumn)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s -> %s\n", args[0], res.Transition, res.FromColumn, res.ToColumn)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := boardClient.DeleteTask(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "task description")
	cmd.Flags().StringP("priority", "p", "", "priority: low, medium, high")
	cmd.Flags().String("due", "", "due date YYYY-MM-DD (none to clear)")
	cmd.Flags().Bool("reminder", true, "send due-date reminders")
	cmd.Flags().StringSliceP("label", "l", nil, "label id (repeatable)")
}

func init() {
	addTaskFlags(addCmd)
	addTaskFlags(editCmd)
	editCmd.Flags().String("title", "", "new title")
	moveCmd.Flags().Int("index", -1, "position in the destination column (-1 = end)")
}
