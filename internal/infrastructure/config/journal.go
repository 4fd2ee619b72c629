package config

import "time"

// JournalConfig locates the game journal
type JournalConfig struct {
	// Journal directory; empty means the platform default
	Directory string `mapstructure:"directory" yaml:"directory,omitempty"`
}

// PollerConfig controls the poll loop
type PollerConfig struct {
	// Delay between ticks
	Interval time.Duration `mapstructure:"interval" yaml:"interval" validate:"required,min=100ms"`
}
