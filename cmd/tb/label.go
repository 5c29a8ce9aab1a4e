package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/ui"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:     "label",
	Short:   "Manage labels",
	GroupID: "labels",
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels with their task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		labels, err := boardClient.ListLabels(context.Background())
		if err != nil {
			return fmt.Errorf("listing labels: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), labels)
		}
		printLabels(cmd.OutOrStdout(), labels)
		return nil
	},
}

var labelAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a label",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		l, err := boardClient.AddLabel(context.Background(), strings.Join(args, " "), color)
		if err != nil {
			return fmt.Errorf("adding label: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), l)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added label %s %s\n", l.ID, ui.RenderHex(l.Color, l.Name))
		return nil
	},
}

var labelEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rename or recolor a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch engine.LabelPatch
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			patch.Color = &v
		}
		if patch.Name == nil && patch.Color == nil {
			return fmt.Errorf("nothing to change; pass --name or --color")
		}
		l, err := boardClient.EditLabel(context.Background(), args[0], patch)
		if err != nil {
			return fmt.Errorf("editing label: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), l)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated label %s %s\n", l.ID, ui.RenderHex(l.Color, l.Name))
		return nil
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a label and strip it from every task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		affected, err := boardClient.DeleteLabel(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("deleting label: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"label_id": args[0], "affected": affected})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted label %s (removed from %d tasks)\n", args[0], len(affected))
		return nil
	},
}

func init() {
	labelAddCmd.Flags().String("color", "", "hex color, e.g. #10b981")
	labelEditCmd.Flags().String("name", "", "new name")
	labelEditCmd.Flags().String("color", "", "new hex color")

	labelCmd.AddCommand(labelListCmd)
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelEditCmd)
	labelCmd.AddCommand(labelDeleteCmd)
}
