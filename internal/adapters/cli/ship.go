package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/clipboard"
)

// NewShipCommand creates the ship command with subcommands
func NewShipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Inspect the current ship",
	}
	cmd.AddCommand(newShipCoriolisURLCommand())
	return cmd
}

func newShipCoriolisURLCommand() *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "coriolis-url",
		Short: "Print a coriolis.io link for the latest loadout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			url, err := newAPIClient().ShipLink(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)

			if copyURL {
				if err := (clipboard.System{}).Copy(url); err != nil {
					return fmt.Errorf("failed to copy link: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied link to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyURL, "copy", false, "Also copy the link to the clipboard")
	return cmd
}
