package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewAutoCopyCommand creates the autocopy command
func NewAutoCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "autocopy on|off",
		Short:     "Start or stop copying the next system to the clipboard",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			status, err := newAPIClient().SetAutoCopy(ctx, args[0] == "on")
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Auto copy %s\n", status.Status)
			return nil
		},
	}
}
