package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ANUPAM4545/taskboard-pro/internal/config"
	boardsync "github.com/ANUPAM4545/taskboard-pro/internal/sync"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored board as JSONL",
	Long: `Reads the board directly from the configured store (TASKBOARD_DATABASE_URL
or TASKBOARD_SQLITE_PATH) and writes it as JSONL, to stdout or a file.`,
	GroupID:           "system",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := openStore(cfg, quietLogger())
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer f.Close()
			out = f
		}
		w := bufio.NewWriter(out)
		if err := boardsync.ExportJSONL(context.Background(), st, w); err != nil {
			return fmt.Errorf("exporting board: %w", err)
		}
		return w.Flush()
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored board with a JSONL export",
	Long: `Reads a JSONL export ("-" for stdin), checks it and saves it to the
configured store. A running server keeps its in-memory board until restarted.`,
	GroupID:           "system",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}
		b, err := boardsync.ReadBoard(in)
		if err != nil {
			return fmt.Errorf("reading export: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := openStore(cfg, quietLogger())
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		existing, err := st.LoadBoard(ctx)
		if err != nil {
			return fmt.Errorf("loading board: %w", err)
		}
		if existing != nil && !force {
			return fmt.Errorf("store already holds a board with %d tasks; pass --force to replace it", len(existing.Tasks))
		}
		if err := st.SaveBoard(ctx, b); err != nil {
			return fmt.Errorf("saving board: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d columns, %d labels, %d tasks\n", len(b.ColumnOrder), len(b.Labels), len(b.Tasks))
		return nil
	},
}

// quietLogger drops store chatter below warnings for one-shot commands.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func init() {
	importCmd.Flags().Bool("force", false, "replace an existing board")
}
