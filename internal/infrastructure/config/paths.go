package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "neutron-assistant"

// DataDir returns the per-user directory holding the database, pid file,
// socket and preferences. NA_DATA_DIR overrides it.
func DataDir() (string, error) {
	if dir := os.Getenv("NA_DATA_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// EnsureDataDir creates the data directory if needed and returns it
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

func dataPath(name string) string {
	dir, err := DataDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}
