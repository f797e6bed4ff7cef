// Package config handles application configuration using Viper.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKS_STORAGE_PATH.
const EnvPrefix = "TASKS"

// DefaultStoragePath is the backing file used when nothing else is configured.
const DefaultStoragePath = "tasks.json"

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Display DisplayConfig `mapstructure:"display"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	Path        string        `mapstructure:"path"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// DisplayConfig holds display-related configuration.
type DisplayConfig struct {
	Colors bool `mapstructure:"colors"`
}

// LogConfig holds diagnostic logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FlagBindings maps configuration keys to command-line flag names. Flags are
// bound only when present on the flag set and only win when explicitly set.
var FlagBindings = map[string]string{
	"storage.path": "file",
	"log.level":    "log-level",
}

// Load reads configuration from defaults, the config file, the environment
// and flags, in increasing order of precedence. An empty configPath looks for
// $HOME/.tasks/config.yaml and tolerates its absence; an explicit path must exist.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tasks"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if flags != nil {
		if f := flags.Lookup("no-color"); f != nil && f.Changed {
			cfg.Display.Colors = false
		}
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}

	return &cfg, nil
}

// Default returns the configuration used when no file, environment or flag
// overrides anything.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:        DefaultStoragePath,
			LockTimeout: 5 * time.Second,
		},
		Display: DisplayConfig{Colors: true},
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.lock_timeout", d.Storage.LockTimeout)
	v.SetDefault("display.colors", d.Display.Colors)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
