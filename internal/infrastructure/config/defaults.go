package config

import "time"

// Service endpoints used when nothing else is configured
const (
	DefaultSpanshURL      = "https://www.spansh.co.uk/api"
	DefaultEDSMURL        = "https://www.edsm.net/api-v1"
	DefaultCoriolisURL    = "https://coriolis-api.gobidev.de/convert"
	DefaultFSDDataURL     = "https://raw.githubusercontent.com/EDCD/coriolis-data/master/modules/standard/frame_shift_drive.json"
	DefaultGitHubURL      = "https://api.github.com"
	DefaultGitHubRepo     = "Gobidev/EDNeutronAssistant"
	DefaultUserAgent      = "neutron-assistant-go"
	DefaultDaemonAddress  = "127.0.0.1:50061"
	DefaultDatabaseFile   = "neutron.db"
	DefaultSocketFile     = "neutron-daemon.sock"
	DefaultPIDFile        = "neutron-daemon.pid"
	DefaultMetricsPath    = "/metrics"
	DefaultPollerInterval = time.Second
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = dataPath(DefaultDatabaseFile)
	}
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Host == "" {
			cfg.Database.Host = "localhost"
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
		if cfg.Database.User == "" {
			cfg.Database.User = "neutron"
		}
		if cfg.Database.Name == "" {
			cfg.Database.Name = "neutron"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Service defaults
	s := &cfg.Services
	if s.UserAgent == "" {
		s.UserAgent = DefaultUserAgent
	}
	if s.Spansh.BaseURL == "" {
		s.Spansh.BaseURL = DefaultSpanshURL
	}
	if s.Spansh.SimplePollInterval == 0 {
		s.Spansh.SimplePollInterval = time.Second
	}
	if s.Spansh.ExactPollInterval == 0 {
		s.Spansh.ExactPollInterval = 4 * time.Second
	}
	if s.Spansh.MaxPolls == 0 {
		s.Spansh.MaxPolls = 300
	}
	if s.Spansh.SearchCacheTTL == 0 {
		s.Spansh.SearchCacheTTL = 10 * time.Minute
	}
	if s.EDSM.BaseURL == "" {
		s.EDSM.BaseURL = DefaultEDSMURL
	}
	if s.EDSM.CacheTTL == 0 {
		s.EDSM.CacheTTL = time.Hour
	}
	if s.Coriolis.ConvertURL == "" {
		s.Coriolis.ConvertURL = DefaultCoriolisURL
	}
	if s.Coriolis.FSDDataURL == "" {
		s.Coriolis.FSDDataURL = DefaultFSDDataURL
	}
	if s.GitHub.BaseURL == "" {
		s.GitHub.BaseURL = DefaultGitHubURL
	}
	if s.GitHub.Repo == "" {
		s.GitHub.Repo = DefaultGitHubRepo
	}

	if cfg.Poller.Interval == 0 {
		cfg.Poller.Interval = DefaultPollerInterval
	}

	// Daemon defaults
	if cfg.Daemon.Address == "" {
		cfg.Daemon.Address = DefaultDaemonAddress
	}
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = dataPath(DefaultSocketFile)
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = dataPath(DefaultPIDFile)
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Logging.Rotation.MaxSize == 0 {
		cfg.Logging.Rotation.MaxSize = 20 // MB
	}
	if cfg.Logging.Rotation.MaxBackups == 0 {
		cfg.Logging.Rotation.MaxBackups = 3
	}
	if cfg.Logging.Rotation.MaxAge == 0 {
		cfg.Logging.Rotation.MaxAge = 14 // days
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
