package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pyproj-tools/pyproj/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"

	// KeyIndexSources lists directories searched for package catalogs,
	// highest priority first.
	KeyIndexSources = "index.sources"

	// KeyLockFile overrides the lock file name written next to the
	// manifest.
	KeyLockFile = "lock.file"

	// KeyUpdateMirror points self-update at a mirror instead of GitHub
	// release assets.
	KeyUpdateMirror = "update.mirror"
)

// DefaultLockFile is the lock name used when no override is configured.
const DefaultLockFile = "pyproj.lock"

// Dir returns the path to the config directory (~/.pyproj/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pyproj/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyLockFile, DefaultLockFile)
	viper.SetDefault(KeyIndexSources, []string{filepath.Join(Dir(), "index")})

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetStringSlice returns a list-valued config entry.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// IndexSources returns the configured catalog source directories.
func IndexSources() []string {
	return GetStringSlice(KeyIndexSources)
}

// UpdateMirror returns the configured release mirror URL, or "" when
// updates come straight from GitHub.
func UpdateMirror() string {
	return Get(KeyUpdateMirror)
}

// LockFile returns the configured lock file name.
func LockFile() string {
	name := Get(KeyLockFile)
	if name == "" {
		return DefaultLockFile
	}
	return name
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
