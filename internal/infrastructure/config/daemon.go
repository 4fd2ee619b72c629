package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// Control API listen address (host:port)
	Address string `mapstructure:"address" yaml:"address" validate:"required,hostname_port"`

	// Unix socket for the gRPC health service
	SocketPath string `mapstructure:"socket_path" yaml:"socket_path" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file" yaml:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"required"`
}
