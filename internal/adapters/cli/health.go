package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long: `Query the daemon's gRPC health service over its unix socket.

Reports the overall daemon status plus the journal poller and game log reader.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := queryHealth(cmd.Context(), socketPath)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), statuses)
			}
			writeHealth(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
}

func queryHealth(ctx context.Context, socket string) (map[string]string, error) {
	client, err := grpc.NewHealthClient(socket)
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.CheckAll(ctx)
}

func writeHealth(w io.Writer, statuses map[string]string) {
	verdict := "✗ Daemon is not healthy"
	if statuses["daemon"] == "SERVING" {
		verdict = "✓ Daemon is healthy"
	}
	fmt.Fprintln(w, verdict)

	names := lo.Keys(statuses)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %s\n", name+":", statuses[name])
	}
}
