package config

// MetricsConfig controls the Prometheus endpoint on the control API
type MetricsConfig struct {
	// Enabled mounts the metrics handler and registers collectors
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" yaml:"path" validate:"omitempty,startswith=/"`
}
