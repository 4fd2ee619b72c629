package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check GitHub for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			info, err := newAPIClient().CheckForUpdate(ctx)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), info)
			}
			if info.Available {
				fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s (running %s)\n", info.Latest, info.Current)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Up to date (%s)\n", info.Current)
			}
			return nil
		},
	}
}
