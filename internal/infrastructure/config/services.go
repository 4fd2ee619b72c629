package config

import "time"

// ServicesConfig holds the external web services the assistant talks to
type ServicesConfig struct {
	// User-Agent sent to every service
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`

	Spansh   SpanshConfig   `mapstructure:"spansh" yaml:"spansh"`
	EDSM     EDSMConfig     `mapstructure:"edsm" yaml:"edsm"`
	Coriolis CoriolisConfig `mapstructure:"coriolis" yaml:"coriolis"`
	GitHub   GitHubConfig   `mapstructure:"github" yaml:"github"`
}

// SpanshConfig configures the route planners and system search
type SpanshConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`

	// Delay between job result polls
	SimplePollInterval time.Duration `mapstructure:"simple_poll_interval" yaml:"simple_poll_interval" validate:"required"`
	ExactPollInterval  time.Duration `mapstructure:"exact_poll_interval" yaml:"exact_poll_interval" validate:"required"`

	// Give up on a job after this many polls
	MaxPolls uint `mapstructure:"max_polls" yaml:"max_polls" validate:"min=1"`

	SearchCacheTTL time.Duration `mapstructure:"search_cache_ttl" yaml:"search_cache_ttl"`
}

// EDSMConfig configures the distance oracle
type EDSMConfig struct {
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// CoriolisConfig configures ship build conversion
type CoriolisConfig struct {
	ConvertURL string `mapstructure:"convert_url" yaml:"convert_url" validate:"required,url"`
	FSDDataURL string `mapstructure:"fsd_data_url" yaml:"fsd_data_url" validate:"required,url"`
}

// GitHubConfig configures the update check
type GitHubConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Repo    string `mapstructure:"repo" yaml:"repo" validate:"required"`
}
