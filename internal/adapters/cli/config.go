package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage neutron assistant configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (NA_* prefix, e.g. NA_POLLER_INTERVAL=2s)
2. Config file (config.yaml)
3. Default values

User preferences (default efficiency, exact route options) are stored in
user_settings.json in the data directory.

Examples:
  neutron config show
  neutron config set-efficiency 80
  neutron config set-exact --cargo 64 --use-supercharge=false
  neutron config set-autocopy-on-start true`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetEfficiencyCommand())
	cmd.AddCommand(newConfigSetExactCommand())
	cmd.AddCommand(newConfigSetAutoCopyCommand())

	return cmd
}

type configView struct {
	Config      *config.Config     `yaml:"config"`
	Preferences *config.UserConfig `yaml:"preferences"`
	PrefsPath   string             `yaml:"preferences_file"`
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nUsing default configuration.\n", err)
				cfg = config.LoadConfigOrDefault("")
			}
			cfg.Database.URL = maskPassword(cfg.Database.URL)

			handler, err := config.NewUserConfigHandler("")
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			prefs, err := handler.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load user config: %v\n", err)
				prefs = config.DefaultUserConfig()
			}

			view := configView{Config: cfg, Preferences: prefs, PrefsPath: handler.GetConfigPath()}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}
			out, err := yaml.Marshal(view)
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newConfigSetEfficiencyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-efficiency <1-100>",
		Short: "Set the default neutron plotter efficiency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			efficiency, err := strconv.Atoi(args[0])
			if err != nil || efficiency < 1 || efficiency > 100 {
				return fmt.Errorf("efficiency must be a number between 1 and 100")
			}
			return updatePreferences(cmd, func(c *config.UserConfig) {
				c.DefaultEfficiency = efficiency
			})
		},
	}
}

func newConfigSetExactCommand() *cobra.Command {
	var (
		cargo               int
		useSupercharge      bool
		excludeSecondary    bool
		useInjections       bool
		alreadySupercharged bool
	)

	cmd := &cobra.Command{
		Use:   "set-exact",
		Short: "Set the default galaxy plotter options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cargo < 0 {
				return fmt.Errorf("cargo cannot be negative")
			}
			flags := cmd.Flags()
			return updatePreferences(cmd, func(c *config.UserConfig) {
				if flags.Changed("cargo") {
					c.Exact.Cargo = cargo
				}
				if flags.Changed("use-supercharge") {
					c.Exact.UseSupercharge = useSupercharge
				}
				if flags.Changed("exclude-secondary") {
					c.Exact.ExcludeSecondary = excludeSecondary
				}
				if flags.Changed("use-injections") {
					c.Exact.UseInjections = useInjections
				}
				if flags.Changed("already-supercharged") {
					c.Exact.AlreadySupercharged = alreadySupercharged
				}
			})
		},
	}

	cmd.Flags().IntVar(&cargo, "cargo", 0, "Cargo in tons")
	cmd.Flags().BoolVar(&useSupercharge, "use-supercharge", true, "Route through neutron stars")
	cmd.Flags().BoolVar(&excludeSecondary, "exclude-secondary", true, "Avoid secondary stars")
	cmd.Flags().BoolVar(&useInjections, "use-injections", false, "Use FSD injections")
	cmd.Flags().BoolVar(&alreadySupercharged, "already-supercharged", false, "Start supercharged")
	return cmd
}

func newConfigSetAutoCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-autocopy-on-start <true|false>",
		Short: "Start auto copy when the daemon restores a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", args[0])
			}
			return updatePreferences(cmd, func(c *config.UserConfig) {
				c.AutoCopyOnStart = enabled
			})
		},
	}
}

func updatePreferences(cmd *cobra.Command, fn func(*config.UserConfig)) error {
	handler, err := config.NewUserConfigHandler("")
	if err != nil {
		return fmt.Errorf("failed to create user config handler: %w", err)
	}
	if err := handler.Update(fn); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved preferences to %s\n", handler.GetConfigPath())
	return nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
