package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
)

// calculationTimeout bounds --wait; exact routes can take minutes
const calculationTimeout = 30 * time.Minute

// NewRouteCommand creates the route command with subcommands
func NewRouteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Calculate, inspect and clear routes",
		Long: `Calculate a route with the neutron plotter (simple) or the galaxy plotter (exact).

Calculations run in the daemon; without --wait the command returns as soon as the
calculation has started. The origin defaults to the current system.

Examples:
  neutron route simple --to Colonia
  neutron route simple --from Sol --to "Sagittarius A*" --efficiency 80 --range 65.2
  neutron route exact --to Colonia --cargo 64 --no-exclude-secondary --wait
  neutron route calculations
  neutron route clear`,
	}

	cmd.AddCommand(newRouteSimpleCommand())
	cmd.AddCommand(newRouteExactCommand())
	cmd.AddCommand(newRouteClearCommand())
	cmd.AddCommand(newRouteCalculationsCommand())

	return cmd
}

// loadPreferences returns saved preferences, falling back to defaults
func loadPreferences() *config.UserConfig {
	handler, err := config.NewUserConfigHandler("")
	if err != nil {
		return config.DefaultUserConfig()
	}
	prefs, err := handler.Load()
	if err != nil {
		return config.DefaultUserConfig()
	}
	return prefs
}

// resolveOrigin uses the current system when --from is empty
func resolveOrigin(ctx context.Context, from string) (string, error) {
	if from != "" {
		return from, nil
	}
	status, err := newAPIClient().Status(ctx)
	if err != nil {
		return "", err
	}
	if status.CurrentSystem == "" {
		return "", fmt.Errorf("current system unknown: pass --from")
	}
	return status.CurrentSystem, nil
}

func calculationContext(cmd *cobra.Command, wait bool) (context.Context, context.CancelFunc) {
	if wait {
		return context.WithTimeout(cmd.Context(), calculationTimeout)
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func newRouteSimpleCommand() *cobra.Command {
	var (
		from       string
		to         string
		efficiency int
		jumpRange  float64
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Plot a route with the neutron plotter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := calculationContext(cmd, wait)
			defer cancel()

			origin, err := resolveOrigin(ctx, from)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("efficiency") {
				efficiency = loadPreferences().DefaultEfficiency
			}

			resp, err := newAPIClient().CalculateSimpleRoute(ctx, routecalc.CalculateSimpleRouteCommand{
				From:       origin,
				To:         to,
				Efficiency: efficiency,
				Range:      jumpRange,
				Wait:       wait,
			})
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			printCalculation(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Origin system (default: current system)")
	cmd.Flags().StringVar(&to, "to", "", "Destination system (required)")
	cmd.Flags().IntVar(&efficiency, "efficiency", routecalc.DefaultEfficiency, "Efficiency 1-100 (default: saved preference)")
	cmd.Flags().Float64Var(&jumpRange, "range", 0, "Jump range in LY (default: ship range from the journal)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the calculation to finish")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newRouteExactCommand() *cobra.Command {
	var (
		from                string
		to                  string
		cargo               int
		alreadySupercharged bool
		noSupercharge       bool
		useInjections       bool
		noExcludeSecondary  bool
		wait                bool
	)

	cmd := &cobra.Command{
		Use:   "exact",
		Short: "Plot a route with the galaxy plotter for the current ship build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := calculationContext(cmd, wait)
			defer cancel()

			origin, err := resolveOrigin(ctx, from)
			if err != nil {
				return err
			}

			defaults := loadPreferences().Exact
			request := routecalc.CalculateExactRouteCommand{
				From:                origin,
				To:                  to,
				Cargo:               defaults.Cargo,
				AlreadySupercharged: defaults.AlreadySupercharged,
				UseSupercharge:      defaults.UseSupercharge,
				UseInjections:       defaults.UseInjections,
				ExcludeSecondary:    defaults.ExcludeSecondary,
				Wait:                wait,
			}
			flags := cmd.Flags()
			if flags.Changed("cargo") {
				request.Cargo = cargo
			}
			if flags.Changed("supercharged") {
				request.AlreadySupercharged = alreadySupercharged
			}
			if flags.Changed("no-supercharge") {
				request.UseSupercharge = !noSupercharge
			}
			if flags.Changed("injections") {
				request.UseInjections = useInjections
			}
			if flags.Changed("no-exclude-secondary") {
				request.ExcludeSecondary = !noExcludeSecondary
			}

			resp, err := newAPIClient().CalculateExactRoute(ctx, request)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			printCalculation(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Origin system (default: current system)")
	cmd.Flags().StringVar(&to, "to", "", "Destination system (required)")
	cmd.Flags().IntVar(&cargo, "cargo", 0, "Cargo carried in tons")
	cmd.Flags().BoolVar(&alreadySupercharged, "supercharged", false, "The FSD is already supercharged")
	cmd.Flags().BoolVar(&noSupercharge, "no-supercharge", false, "Do not route through neutron stars")
	cmd.Flags().BoolVar(&useInjections, "injections", false, "Use FSD injections")
	cmd.Flags().BoolVar(&noExcludeSecondary, "no-exclude-secondary", false, "Allow secondary stars")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the calculation to finish")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newRouteClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the loaded route and stop auto copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			status, err := newAPIClient().ClearRoute(ctx)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Route cleared")
			return nil
		},
	}
}

func newRouteCalculationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "calculations",
		Short: "List route calculations of this daemon run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			calcs, err := newAPIClient().Calculations(ctx)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), calcs)
			}

			out := cmd.OutOrStdout()
			if len(calcs) == 0 {
				fmt.Fprintln(out, "No calculations")
				return nil
			}
			fmt.Fprintf(out, "%-36s  %-6s  %-9s  %5s  %s\n", "ID", "KIND", "STATUS", "HOPS", "ROUTE")
			for _, c := range calcs {
				line := fmt.Sprintf("%-36s  %-6s  %-9s  %5d  %s -> %s", c.ID, c.Kind, c.Status, c.Hops, c.From, c.To)
				if c.CacheHit {
					line += " (cached)"
				}
				if c.Error != "" {
					line += " : " + c.Error
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
