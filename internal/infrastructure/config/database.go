package config

import "time"

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Connection type: "sqlite" (default) or "postgres"
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL for postgres (takes precedence over individual fields)
	URL string `mapstructure:"url" yaml:"url,omitempty"`

	// PostgreSQL connection fields (used if URL is empty)
	Host     string `mapstructure:"host" yaml:"host,omitempty"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user" yaml:"user,omitempty"`
	Password string `mapstructure:"password" yaml:"-"`
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode,omitempty" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite file, or ":memory:"
	Path string `mapstructure:"path" yaml:"path,omitempty" validate:"required_if=Type sqlite"`

	Pool PoolConfig `mapstructure:"pool" yaml:"pool"`
}

// PoolConfig holds connection pool configuration (postgres only)
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" yaml:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" yaml:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime" yaml:"max_lifetime"`
}
