package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const userSettingsFile = "user_settings.json"

// ExactRouteDefaults are the checkbox defaults for exact route requests
type ExactRouteDefaults struct {
	UseSupercharge      bool `json:"use_supercharge" yaml:"use_supercharge"`
	ExcludeSecondary    bool `json:"exclude_secondary" yaml:"exclude_secondary"`
	UseInjections       bool `json:"use_injections" yaml:"use_injections"`
	AlreadySupercharged bool `json:"already_supercharged" yaml:"already_supercharged"`
	Cargo               int  `json:"cargo" yaml:"cargo"`
}

// UserConfig holds user preferences stored next to the database.
// It never contains secrets.
type UserConfig struct {
	Theme             string             `json:"theme" yaml:"theme"`
	DefaultEfficiency int                `json:"default_efficiency" yaml:"default_efficiency"`
	Exact             ExactRouteDefaults `json:"exact" yaml:"exact"`
	AutoCopyOnStart   bool               `json:"auto_copy_on_start" yaml:"auto_copy_on_start"`
}

// DefaultUserConfig returns the preferences used before anything is saved
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Theme:             "dark",
		DefaultEfficiency: 60,
		Exact: ExactRouteDefaults{
			UseSupercharge:   true,
			ExcludeSecondary: true,
		},
	}
}

// UserConfigHandler manages loading and saving user preferences
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for user_settings.json in dir.
// An empty dir means the data directory.
func NewUserConfigHandler(dir string) (*UserConfigHandler, error) {
	if dir == "" {
		d, err := EnsureDataDir()
		if err != nil {
			return nil, err
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &UserConfigHandler{
		configPath: filepath.Join(dir, userSettingsFile),
	}, nil
}

// Load reads preferences from disk; keys missing from the file keep their defaults
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	cfg := DefaultUserConfig()

	data, err := os.ReadFile(h.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	if cfg.DefaultEfficiency < 1 || cfg.DefaultEfficiency > 100 {
		cfg.DefaultEfficiency = DefaultUserConfig().DefaultEfficiency
	}

	return cfg, nil
}

// Save writes preferences to disk
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// Update loads, mutates and saves preferences
func (h *UserConfigHandler) Update(fn func(*UserConfig)) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	fn(cfg)
	return h.Save(cfg)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
