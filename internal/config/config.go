package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deriamis/mongosh/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "snippet"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyIndexURI    = "index_uri"
	KeyRegistryURL = "registry_url"
	KeyInstallDir  = "install_dir"
	KeyRCFile      = "rc_file"
	KeyNodePath    = "node_path"
	KeyMaxAge      = "max_age"
	KeyLogLevel    = "log_level"
)

// Keys lists every key accepted by `snippet config set`.
var Keys = []string{KeyIndexURI, KeyRegistryURL, KeyInstallDir, KeyRCFile, KeyNodePath, KeyMaxAge, KeyLogLevel}

// DefaultMaxAge is how long a cached snippet index is served before a
// background refresh is started.
const DefaultMaxAge = time.Hour

// Settings is the resolved configuration used to build a snippet manager.
type Settings struct {
	IndexURI    string
	RegistryURL string
	InstallDir  string
	RCFile      string
	NodePath    string
	MaxAge      time.Duration
	LogLevel    string
}

// Dir returns the shell home directory (~/.mongodb/mongosh/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
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

	viper.SetDefault(KeyIndexURI, branding.IndexURI())
	viper.SetDefault(KeyRegistryURL, branding.RegistryURL())
	viper.SetDefault(KeyInstallDir, filepath.Join(Dir(), "snippets"))
	viper.SetDefault(KeyRCFile, defaultRCFile())
	viper.SetDefault(KeyNodePath, "node")
	viper.SetDefault(KeyMaxAge, DefaultMaxAge.String())
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if key == KeyMaxAge {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", KeyMaxAge, value, err)
		}
	}
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

// Resolve returns the effective settings. Load must have been called first.
func Resolve() (*Settings, error) {
	maxAge := viper.GetDuration(KeyMaxAge)
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	installDir, err := filepath.Abs(viper.GetString(KeyInstallDir))
	if err != nil {
		return nil, fmt.Errorf("resolving install directory: %w", err)
	}
	rcFile, err := filepath.Abs(viper.GetString(KeyRCFile))
	if err != nil {
		return nil, fmt.Errorf("resolving rc file: %w", err)
	}

	return &Settings{
		IndexURI:    viper.GetString(KeyIndexURI),
		RegistryURL: viper.GetString(KeyRegistryURL),
		InstallDir:  installDir,
		RCFile:      rcFile,
		NodePath:    viper.GetString(KeyNodePath),
		MaxAge:      maxAge,
		LogLevel:    viper.GetString(KeyLogLevel),
	}, nil
}

func defaultRCFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return branding.RCFile()
	}
	return filepath.Join(home, branding.RCFile())
}

func isKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
