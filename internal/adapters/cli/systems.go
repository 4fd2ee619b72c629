package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSystemsCommand creates the systems command with subcommands
func NewSystemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "systems",
		Short: "Look up star systems",
	}
	cmd.AddCommand(newSystemsSearchCommand())
	return cmd
}

func newSystemsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Autocomplete a system name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			systems, err := newAPIClient().SearchSystems(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), systems)
			}
			if len(systems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No systems found")
				return nil
			}
			for _, s := range systems {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}
