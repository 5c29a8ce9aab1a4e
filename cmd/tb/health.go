package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/client"
	"github.com/ANUPAM4545/taskboard-pro/internal/server"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the board server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		want := "ok"
		var status string
		var err error
		if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
			want = "serving"
			status, err = grpcHealth(ctx, addr)
		} else {
			status, err = boardClient.Health(ctx)
		}
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), map[string]string{"status": status}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", status)
		}

		if status != want {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func grpcHealth(ctx context.Context, addr string) (string, error) {
	probe, err := client.NewHealthProbe(addr)
	if err != nil {
		return "", err
	}
	defer probe.Close()
	return probe.Check(ctx, server.ServiceName)
}

func init() {
	healthCmd.Flags().String("grpc", "", "probe the gRPC health service at this address instead")
}
