package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Services ServicesConfig `mapstructure:"services" yaml:"services"`
	Journal  JournalConfig  `mapstructure:"journal" yaml:"journal"`
	Poller   PollerConfig   `mapstructure:"poller" yaml:"poller"`
	Daemon   DaemonConfig   `mapstructure:"daemon" yaml:"daemon"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// LoadConfig resolves the configuration. Environment variables (NA_ prefix,
// e.g. NA_POLLER_INTERVAL=2s) win over the config file, which wins over the
// built-in defaults. An empty configPath searches ".", "./configs" and the
// data directory for config.yaml.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// hosting tools set DATABASE_URL without our prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.type", "postgres")
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if dir, err := DataDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("NA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only answers Get; Unmarshal needs every key bound up front
	for _, key := range configKeys(reflect.TypeOf(Config{}), "") {
		_ = v.BindEnv(key)
	}
	return v
}

// configKeys lists the dotted mapstructure key of every leaf field of t
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := prefix + name
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			keys = append(keys, configKeys(field.Type, key+".")...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// LoadConfigOrDefault falls back to the defaults when the configuration cannot be loaded
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig is LoadConfig for main packages; it panics on error
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
