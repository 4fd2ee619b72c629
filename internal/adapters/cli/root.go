package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/api"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath    string
	daemonAddress string
	socketPath    string
	timeout       time.Duration
	outputJSON    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "neutron",
		Short:   "Neutron assistant CLI - control the neutron route daemon",
		Version: version,
		Long: `neutron talks to a running neutron-daemon, which follows the game journal,
tracks progress along a plotted route and copies the next system to the clipboard.

Examples:
  neutron route simple --from Sol --to Colonia --efficiency 60
  neutron route exact --to Colonia --cargo 32 --wait
  neutron autocopy on
  neutron status
  neutron logs --limit 20
  neutron systems search "Col 2"`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveDaemonEndpoints(cmd)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: search ., ./configs and the data directory)")
	rootCmd.PersistentFlags().StringVar(&daemonAddress, "address", "",
		"Daemon control API address (default: daemon.address from config)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "",
		"Daemon health socket (default: daemon.socket_path from config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second,
		"Request timeout")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false,
		"Print raw JSON responses")

	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewRouteCommand())
	rootCmd.AddCommand(NewAutoCopyCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewSystemsCommand())
	rootCmd.AddCommand(NewShipCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// resolveDaemonEndpoints fills unset endpoint flags from configuration
func resolveDaemonEndpoints(cmd *cobra.Command) {
	if daemonAddress != "" && socketPath != "" {
		return
	}
	cfg := config.LoadConfigOrDefault(configPath)
	if daemonAddress == "" {
		daemonAddress = cfg.Daemon.Address
	}
	if socketPath == "" {
		socketPath = cfg.Daemon.SocketPath
	}
}

func newAPIClient() *api.Client {
	return api.NewClient(daemonAddress, timeout)
}

// Execute runs the root command
func Execute(version string) {
	rootCmd := NewRootCommand(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
