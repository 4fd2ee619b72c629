package config

// LoggingConfig holds process logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`

	// Format of the file handler: json, text
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=json text"`

	// Console destination: stdout, stderr, file (file only, no console)
	Output string `mapstructure:"output" yaml:"output" validate:"required,oneof=stdout stderr file"`

	// File path (required if output is "file"; otherwise an optional extra sink)
	FilePath string `mapstructure:"file_path" yaml:"file_path,omitempty" validate:"required_if=Output file"`

	// Disable ANSI colours on the console
	NoColor bool `mapstructure:"no_color" yaml:"no_color"`

	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation"`

	// Include caller information (file:line)
	IncludeCaller bool `mapstructure:"include_caller" yaml:"include_caller"`
}

// RotationConfig holds log file rotation configuration
type RotationConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Maximum size in megabytes before rotation
	MaxSize int `mapstructure:"max_size" yaml:"max_size" validate:"min=1"`

	// Maximum number of old log files to keep
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups" validate:"min=0"`

	// Maximum age in days before deletion
	MaxAge int `mapstructure:"max_age" yaml:"max_age" validate:"min=0"`

	Compress bool `mapstructure:"compress" yaml:"compress"`
}
